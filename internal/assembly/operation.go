package assembly

import "fmt"

type opKind int

const (
	opCopy opKind = iota
	opBlank
	opRotate
)

// Operation is a single caller-supplied instruction: copy a source page,
// synthesise a blank page, or copy a source page with a rotation applied.
// Page indices are 0-based.
type Operation struct {
	kind  opKind
	index int
	angle int
}

// Copy takes the source page at index and appends it to the output,
// preserving its content and dimensions.
func Copy(index int) Operation {
	return Operation{kind: opCopy, index: index}
}

// Blank appends an empty page of a fixed default size (A4). It references
// no source page.
func Blank() Operation {
	return Operation{kind: opBlank}
}

// Rotate takes the source page at index and appends it with its rotation
// set to the normalised angle. The angle may be negative or exceed 360.
func Rotate(index, angle int) Operation {
	return Operation{kind: opRotate, index: index, angle: angle}
}

// NormalizeAngle maps any angle in degrees onto [0, 360).
func NormalizeAngle(angle int) int {
	return ((angle % 360) + 360) % 360
}

func (op Operation) String() string {
	switch op.kind {
	case opBlank:
		return "blank"
	case opRotate:
		return fmt.Sprintf("rotate(%d,%d)", op.index, op.angle)
	default:
		return fmt.Sprintf("copy(%d)", op.index)
	}
}
