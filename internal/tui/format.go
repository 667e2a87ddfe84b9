package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/fileinfo"
)

// TimeLayout formats modification times in long listings.
const TimeLayout = "2006-01-02 15:04:05"

// displayName returns the cleaned entry name, with a trailing slash for
// directories.
func displayName(info core.Info) string {
	name := fileinfo.Name(info)
	if name != fileinfo.UnknownName {
		name = path.Clean(name)
	}
	if fileinfo.IsDir(info) {
		name += "/"
	}
	return name
}

// typeLabel returns the first three characters of the entry type.
func typeLabel(info core.Info) string {
	typ, _ := info[core.KeyType].(string)
	if typ == "" {
		return fileinfo.UnknownName
	}
	if len(typ) > 3 {
		typ = typ[:3]
	}
	return typ
}

// Bytes formats a size for humans, e.g. "5 B" or "1.5 KiB".
func Bytes(size int64) string {
	if size < 0 {
		return "-"
	}
	return humanize.IBytes(uint64(size))
}

// FormatShort returns the name of the entry.
func FormatShort(info core.Info) string {
	return displayName(info)
}

// FormatLong returns one listing line:
//
//	<type> <size> <mtime> <name>
//
// Missing sizes print as "-" and missing modification times as nothing.
func FormatLong(info core.Info) string {
	size := "-"
	if n, ok := fileinfo.Size(info); ok {
		size = Bytes(n)
	}
	mtime := ""
	if t, ok := fileinfo.ModTime(info); ok {
		mtime = t.Format(TimeLayout)
	}
	return fmt.Sprintf("%-3s %10s %s %s", typeLabel(info), size, mtime, displayName(info))
}

// FormatTable lays out rows in fixed-width columns. Cells that do not fit
// their column are cut and end with "...". Trailing blanks are dropped.
func FormatTable(header []string, widths []int, rows [][]any) string {
	var b strings.Builder
	writeRow := func(cells []any) {
		var line strings.Builder
		for i, width := range widths {
			var cell any
			if i < len(cells) {
				cell = cells[i]
			}
			line.WriteString(fitCell(cell, width))
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	writeRow(headerCells)
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// fitCell pads or cuts a cell to width, keeping at least one blank before
// the next column.
func fitCell(value any, width int) string {
	s := ""
	if value != nil {
		s = fmt.Sprint(value)
	}
	if len(s) >= width {
		keep := max(width-4, 0)
		s = s[:keep] + "..."
	}
	return s + strings.Repeat(" ", max(width-len(s), 0))
}
