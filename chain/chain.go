// Package chain models a planar kinematic chain: an ordered list of revolute
// joints from root to tip, each carrying one fixed-length link, plus the end
// effector at the tip of the last link.
//
// A chain is built while unfrozen, locked with Freeze, and then only changed
// through RotateJoint, which is what the solvers in package ik call. Chains
// are not safe for concurrent use; give each goroutine its own Clone.
package chain

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/planarik/utils"
)

// Chain is an ordered sequence of joints, root to tip.
type Chain struct {
	joints []Joint

	root   r2.Point
	rooted bool

	end       r2.Point
	endActive bool

	frozen bool
}

// New returns an empty, unfrozen chain.
func New() *Chain {
	return &Chain{}
}

// NewFromAngles builds a chain rooted at root with one joint per entry of
// lengths, applying the relative angles in degrees, and computes all positions
// with forward kinematics. The result is not frozen.
func NewFromAngles(root r2.Point, anglesDeg, lengths []float64) (*Chain, error) {
	if len(anglesDeg) != len(lengths) {
		return nil, errors.Errorf("got %d angles for %d lengths", len(anglesDeg), len(lengths))
	}
	c := New()
	pos := root
	for i, length := range lengths {
		if err := c.AppendJoint(pos, anglesDeg[i], length); err != nil {
			return nil, err
		}
		pos = c.end
	}
	return c, nil
}

// Len returns the number of joints.
func (c *Chain) Len() int {
	return len(c.joints)
}

// Joint returns a copy of joint i.
func (c *Chain) Joint(i int) (Joint, error) {
	if i < 0 || i >= len(c.joints) {
		return Joint{}, NewIndexOutOfRangeError(i, len(c.joints))
	}
	return c.joints[i], nil
}

// Joints returns a copy of the joints, root first.
func (c *Chain) Joints() []Joint {
	return append([]Joint(nil), c.joints...)
}

// Angles returns the joint angles in degrees, root first.
func (c *Chain) Angles() []float64 {
	return lo.Map(c.joints, func(j Joint, _ int) float64 { return j.angle })
}

// Lengths returns the link lengths, root first.
func (c *Chain) Lengths() []float64 {
	return lo.Map(c.joints, func(j Joint, _ int) float64 { return j.length })
}

// Positions returns the joint positions, root first.
func (c *Chain) Positions() []r2.Point {
	return lo.Map(c.joints, func(j Joint, _ int) r2.Point { return j.position })
}

// Reach is the sum of the link lengths, the farthest the end effector can be from the root.
func (c *Chain) Reach() float64 {
	return lo.SumBy(c.joints, func(j Joint) float64 { return j.length })
}

// Root returns the world-space anchor of the first joint and whether it has been set.
func (c *Chain) Root() (r2.Point, bool) {
	return c.root, c.rooted
}

// EndEffector returns the cached tip position.
func (c *Chain) EndEffector() r2.Point {
	return c.end
}

// EndEffectorActive reports whether the chain has an end effector, which is
// true once the first point or joint has been added and until Reset.
func (c *Chain) EndEffectorActive() bool {
	return c.endActive
}

// DistanceTo returns the distance from the end effector to p.
func (c *Chain) DistanceTo(p r2.Point) float64 {
	return c.end.Sub(p).Norm()
}

// Frozen reports whether the chain structure is locked.
func (c *Chain) Frozen() bool {
	return c.frozen
}

// Freeze locks the chain structure so that it can be solved. It does nothing
// on a chain without joints.
func (c *Chain) Freeze() {
	if len(c.joints) == 0 {
		return
	}
	c.frozen = true
}

// Reset returns the chain to the empty, unfrozen state with no root or end effector.
func (c *Chain) Reset() {
	c.joints = nil
	c.root = r2.Point{}
	c.rooted = false
	c.end = r2.Point{}
	c.endActive = false
	c.frozen = false
}

// AppendJoint adds a joint at the tail. The first joint also sets the root.
// The end effector moves to the tip of the new link, whose world heading is
// the sum of all joint angles.
func (c *Chain) AppendJoint(position r2.Point, angleDeg, length float64) error {
	if c.frozen {
		return ErrChainFrozen
	}
	j, err := NewJoint(position, angleDeg, length)
	if err != nil {
		return err
	}
	if !c.rooted {
		c.root = position
		c.rooted = true
	}
	c.joints = append(c.joints, j)

	h := utils.DegToRad(lo.Sum(c.Angles()))
	c.end = position.Add(r2.Point{X: math.Cos(h), Y: math.Sin(h)}.Mul(length))
	c.endActive = true
	return nil
}

// AppendPoint extends the chain to a new world-space point, the way a user
// clicks out a chain one vertex at a time. The first point only places the
// root and the end effector. Each later point adds a joint at the current end
// effector whose length is the distance to p and whose angle is the turn from
// the previous link's direction (world +X for the first link) to p. A point
// equal to the current end effector is ignored.
//
// This derivation belongs to whichever layer owns chain construction; callers
// that already know angles and lengths should use AppendJoint.
func (c *Chain) AppendPoint(p r2.Point) error {
	if c.frozen {
		return ErrChainFrozen
	}
	if !c.endActive {
		c.root = p
		c.rooted = true
		c.end = p
		c.endActive = true
		return nil
	}
	if p == c.end {
		return nil
	}

	prev := r2.Point{X: 1}
	if n := len(c.joints); n > 0 {
		prev = c.end.Sub(c.joints[n-1].position)
	}
	v := p.Sub(c.end)
	j, err := NewJoint(c.end, utils.RadToDeg(heading(v)-heading(prev)), v.Norm())
	if err != nil {
		return err
	}
	c.joints = append(c.joints, j)
	c.end = p
	return nil
}

// ForwardKinematics recomputes every joint position and the end effector from
// the root, the joint angles and the link lengths.
func (c *Chain) ForwardKinematics() {
	if len(c.joints) == 0 {
		return
	}
	pos := c.root
	h := 0.
	for i := range c.joints {
		c.joints[i].position = pos
		h += utils.DegToRad(c.joints[i].angle)
		pos = pos.Add(r2.Point{X: math.Cos(h), Y: math.Sin(h)}.Mul(c.joints[i].length))
	}
	c.end = pos
}

// RotateJoint turns joint i by delta radians. The joint's angle absorbs the
// change, and every joint after i along with the end effector is rotated
// rigidly about joint i's position. Link lengths are unchanged.
func (c *Chain) RotateJoint(i int, delta float64) error {
	if i < 0 || i >= len(c.joints) {
		return NewIndexOutOfRangeError(i, len(c.joints))
	}
	c.joints[i].angle = utils.NormalizeDegrees(c.joints[i].angle + utils.RadToDeg(delta))

	cos, sin := math.Cos(delta), math.Sin(delta)
	pivot := c.joints[i].position
	for k := i + 1; k < len(c.joints); k++ {
		c.joints[k].position = rotateAbout(c.joints[k].position, pivot, cos, sin)
	}
	c.end = rotateAbout(c.end, pivot, cos, sin)
	return nil
}

// LengthDrift returns the largest difference between a link's stored length
// and the distance between its cached endpoints.
func (c *Chain) LengthDrift() float64 {
	drift := 0.
	for i, j := range c.joints {
		next := c.end
		if i+1 < len(c.joints) {
			next = c.joints[i+1].position
		}
		drift = math.Max(drift, math.Abs(next.Sub(j.position).Norm()-j.length))
	}
	return drift
}

// Clone returns a deep copy of the chain.
func (c *Chain) Clone() *Chain {
	cp := *c
	cp.joints = append([]Joint(nil), c.joints...)
	return &cp
}

// String prints out a table of each joint, with columns of position, angle and length.
func (c *Chain) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Position", "Angle", "Length"})
	for i, j := range c.joints {
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("X:%.3f, Y:%.3f", j.position.X, j.position.Y),
			fmt.Sprintf("%.2f", j.angle),
			fmt.Sprintf("%.3f", j.length),
		})
	}
	end := "inactive"
	if c.endActive {
		end = fmt.Sprintf("X:%.3f, Y:%.3f", c.end.X, c.end.Y)
	}
	t.AppendFooter(table.Row{"end", end, "", fmt.Sprintf("%.3f", c.Reach())})
	return t.Render()
}
