package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/facet/pkg/math3d"
)

// ErrInvalidCamera is returned by Camera.Validate for unusable lens or
// clipping parameters.
var ErrInvalidCamera = errors.New("invalid camera")

// Camera is a pinhole camera described by physical lens parameters rather
// than a field-of-view angle. It looks down its local -Z axis.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Rotation as Euler angles in degrees, applied about X, then Y, then Z.
	Rotation math3d.Vec3

	FocalLength        float64 // Distance between the eye and the image plane (mm)
	FilmApertureWidth  float64 // Film gate width (mm)
	FilmApertureHeight float64 // Film gate height (mm)

	NearClippingPlane float64 // World units, > 0
	FarClippingPlane  float64 // World units, > near
}

// ScreenBounds is the extent of the image plane at the near clipping plane.
type ScreenBounds struct {
	Top, Bottom, Left, Right float64
}

// NewCamera creates a camera at the origin with a 35mm lens on full-frame
// 36x24mm film.
func NewCamera() *Camera {
	return &Camera{
		FocalLength:        35,
		FilmApertureWidth:  36,
		FilmApertureHeight: 24,
		NearClippingPlane:  1,
		FarClippingPlane:   1000,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// SetRotation sets the camera rotation (degrees about X, Y and Z).
func (c *Camera) SetRotation(rot math3d.Vec3) {
	c.Rotation = rot
}

// SetFocalLength sets the focal length. Non-positive values are ignored.
func (c *Camera) SetFocalLength(focalLength float64) {
	if focalLength > 0 {
		c.FocalLength = focalLength
	}
}

// SetFilmAperture sets the film gate size. Non-positive values are ignored.
func (c *Camera) SetFilmAperture(width, height float64) {
	if width > 0 && height > 0 {
		c.FilmApertureWidth = width
		c.FilmApertureHeight = height
	}
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.NearClippingPlane = near
	c.FarClippingPlane = far
}

// Validate reports whether the lens, clipping and pose parameters can be
// rendered.
func (c *Camera) Validate() error {
	switch {
	case !(c.FocalLength > 0):
		return fmt.Errorf("%w: focal length %v must be > 0", ErrInvalidCamera, c.FocalLength)
	case !(c.FilmApertureWidth > 0), !(c.FilmApertureHeight > 0):
		return fmt.Errorf("%w: film aperture %vx%v must be > 0", ErrInvalidCamera, c.FilmApertureWidth, c.FilmApertureHeight)
	case !(c.NearClippingPlane > 0):
		return fmt.Errorf("%w: near clipping plane %v must be > 0", ErrInvalidCamera, c.NearClippingPlane)
	case !(c.FarClippingPlane > c.NearClippingPlane):
		return fmt.Errorf("%w: far clipping plane %v must be beyond near %v", ErrInvalidCamera, c.FarClippingPlane, c.NearClippingPlane)
	}
	// Non-finite position or rotation poisons the determinant.
	if det := c.CameraToWorld().Determinant(); math.IsNaN(det) || math.IsInf(det, 0) || det == 0 {
		return fmt.Errorf("%w: transform at %v rotated %v is not invertible", ErrInvalidCamera, c.Position, c.Rotation)
	}
	return nil
}

// CameraToWorld returns the camera's local-to-world transform:
// RotateX * RotateY(-y) * RotateZ * Translate(position).
// The Y angle is negated because looking down the Y axis the X axis points
// the opposite way from the world convention.
func (c *Camera) CameraToWorld() math3d.Mat4 {
	rot := c.Rotation.Radians()

	return math3d.RotateX(rot.X).
		Mul(math3d.RotateY(-rot.Y)).
		Mul(math3d.RotateZ(rot.Z)).
		Mul(math3d.Translate(c.Position))
}

// WorldToCamera returns the inverse of CameraToWorld. A rotation followed by
// a translation is always invertible, so a singular result panics.
func (c *Camera) WorldToCamera() math3d.Mat4 {
	inv, ok := c.CameraToWorld().Inverse()
	if !ok {
		panic(fmt.Sprintf("render: camera transform is singular (position %v, rotation %v)", c.Position, c.Rotation))
	}
	return inv
}

// ScreenBounds returns the image plane extent at the near clipping plane,
// derived from the aperture/focal length ratio by similar triangles.
func (c *Camera) ScreenBounds() ScreenBounds {
	top := ((c.FilmApertureHeight / 2) / c.FocalLength) * c.NearClippingPlane
	right := ((c.FilmApertureWidth / 2) / c.FocalLength) * c.NearClippingPlane
	return ScreenBounds{
		Top:    top,
		Bottom: -top,
		Left:   -right,
		Right:  right,
	}
}
