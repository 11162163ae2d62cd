package main

import (
	"math"
	"sync"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

const (
	orbitStep    = 15.0 // Degrees per key press
	zoomFactor   = 1.15
	maxPitch     = 89.0
	minDistance  = 0.1
	orbitFreq    = 6.0
	orbitDamping = 1.0
)

// orbitAxis eases a value toward its target with a critically damped
// spring.
type orbitAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

func newOrbitAxis(fps int, v float64) orbitAxis {
	return orbitAxis{
		Position: v,
		Target:   v,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), orbitFreq, orbitDamping),
	}
}

// Update advances the spring by one frame.
func (a *orbitAxis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// orbit places a camera on a sphere around a target point. Input handlers
// move the targets; the frame loop steps the springs and reads the camera.
type orbit struct {
	mu     sync.Mutex
	center math3d.Vec3
	fps    int

	yaw, pitch, distance orbitAxis
	home                 [3]float64
}

// newOrbit starts at yaw and pitch degrees, distance from center. Positive
// pitch looks up.
func newOrbit(fps int, center math3d.Vec3, yaw, pitch, distance float64) *orbit {
	o := &orbit{center: center, fps: fps, home: [3]float64{yaw, pitch, distance}}
	o.reset()
	return o
}

// orbitFor frames a box: the camera starts above and to the side, looking
// down at its centre from far enough away that the whole box fits a 35mm
// lens.
func orbitFor(fps int, bounds math3d.AABB) *orbit {
	if bounds.IsEmpty() {
		return newOrbit(fps, math3d.Zero3(), 0, 0, 10)
	}
	radius := bounds.Size().Len() / 2
	return newOrbit(fps, bounds.Center(), 30, -20, math.Max(3*radius, 1))
}

func (o *orbit) reset() {
	o.yaw = newOrbitAxis(o.fps, o.home[0])
	o.pitch = newOrbitAxis(o.fps, o.home[1])
	o.distance = newOrbitAxis(o.fps, o.home[2])
}

// Reset springs back to the starting view.
func (o *orbit) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.yaw.Target = o.home[0]
	o.pitch.Target = o.home[1]
	o.distance.Target = o.home[2]
}

// Turn moves the yaw and pitch targets by whole steps.
func (o *orbit) Turn(dyaw, dpitch float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.yaw.Target += dyaw * orbitStep
	o.pitch.Target = math.Max(-maxPitch, math.Min(maxPitch, o.pitch.Target+dpitch*orbitStep))
}

// Zoom moves closer for positive steps and further for negative ones.
func (o *orbit) Zoom(steps int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.distance.Target = math.Max(minDistance, o.distance.Target*math.Pow(zoomFactor, float64(-steps)))
}

// Step advances every spring by one frame.
func (o *orbit) Step() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.yaw.Update()
	o.pitch.Update()
	o.distance.Update()
}

// Apply points cam at the orbit centre from the current spring positions.
// Lens settings are left alone.
func (o *orbit) Apply(cam *render.Camera) {
	o.mu.Lock()
	yaw, pitch, dist := o.yaw.Position, o.pitch.Position, o.distance.Position
	o.mu.Unlock()

	y, p := yaw*math.Pi/180, pitch*math.Pi/180
	forward := math3d.V3(-math.Sin(y)*math.Cos(p), math.Sin(p), -math.Cos(y)*math.Cos(p))

	cam.Position = o.center.Sub(forward.Scale(dist))
	cam.Rotation = math3d.V3(pitch, yaw, 0)
}
