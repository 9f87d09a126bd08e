// This file contains general geometry types used throughout the data model.

package gbx

import "fmt"

// Vector3 is a 3-component float vector, used for positions and colors.
type Vector3 struct {
	X, Y, Z float32
}

// String returns a string representation in the form "x=X, y=Y, z=Z".
func (v Vector3) String() string {
	return fmt.Sprintf("x=%v, y=%v, z=%v", v.X, v.Y, v.Z)
}

// BytePos is a byte-valued position triple, used for block grid coordinates.
type BytePos struct {
	X, Y, Z byte
}

// String returns a string representation in the form "x=X, y=Y, z=Z".
func (p BytePos) String() string {
	return fmt.Sprintf("x=%v, y=%v, z=%v", p.X, p.Y, p.Z)
}
