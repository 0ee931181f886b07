package engine

import "fmt"

// ErrUnknownCF reports a request against a column family the engine does not
// have.
type ErrUnknownCF CF

func (e ErrUnknownCF) Error() string {
	return fmt.Sprintf("unknown column family %q", string(e))
}

// ErrUnsupportedScanMode reports an iterator request in a direction the
// engine cannot serve.
type ErrUnsupportedScanMode ScanMode

func (e ErrUnsupportedScanMode) Error() string {
	return fmt.Sprintf("unsupported scan mode %d", int(e))
}
