package core

// ReadOnly implements WriteFS and ManageFS by refusing every operation with
// ErrUnsupported. Read-only backends embed it.
type ReadOnly struct{}

func (ReadOnly) Pipe(path string, _ []byte) error {
	return PathError("pipe", path, ErrUnsupported)
}

func (ReadOnly) Touch(path string, _ bool) error {
	return PathError("touch", path, ErrUnsupported)
}

func (ReadOnly) Mkdir(path string, _ bool) error {
	return PathError("mkdir", path, ErrUnsupported)
}

func (ReadOnly) Copy(src, _ string, _ bool) error {
	return PathError("copy", src, ErrUnsupported)
}

func (ReadOnly) Move(src, _ string, _ bool) error {
	return PathError("move", src, ErrUnsupported)
}

func (ReadOnly) Remove(path string, _ bool) error {
	return PathError("remove", path, ErrUnsupported)
}
