package viz

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glOffset converts a byte offset to unsafe.Pointer for VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Renderer owns the raymarch program and the fullscreen quad. One
// instance per GL context; Destroy is idempotent and safe mid-frame.
type Renderer struct {
	prog uint32
	vao  uint32
	vbo  uint32

	uResolution   int32
	uTime         int32
	uTreble       int32
	uVolume       int32
	uSpikeDrive   int32
	uBlendK       int32
	uGlowStrength int32
	uColCore      int32
	uColMid       int32
	uColTip       int32
	uColGlow      int32
	uBlobs        int32
	uNumBlobs     int32

	width, height int
}

// NewRenderer compiles the raymarch program and builds the quad. Any GL
// failure here is fatal to activation: there is no CPU fallback at
// interactive resolutions, so the error goes straight to the caller.
func NewRenderer(width, height int) (*Renderer, error) {
	prog, err := linkProgram(quadVertSrc, raymarchFragSrc)
	if err != nil {
		return nil, fmt.Errorf("raymarch program: %w", err)
	}

	r := &Renderer{prog: prog, width: width, height: height}

	// Fullscreen quad in clip space (6 vertices, 2 triangles).
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	quadVerts := [12]float32{
		-1, -1, 1, -1, 1, 1,
		-1, -1, 1, 1, -1, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))
	r.vao = vao
	r.vbo = vbo

	gl.UseProgram(prog)
	r.uResolution = gl.GetUniformLocation(prog, gl.Str("uResolution\x00"))
	r.uTime = gl.GetUniformLocation(prog, gl.Str("uTime\x00"))
	r.uTreble = gl.GetUniformLocation(prog, gl.Str("uTreble\x00"))
	r.uVolume = gl.GetUniformLocation(prog, gl.Str("uVolume\x00"))
	r.uSpikeDrive = gl.GetUniformLocation(prog, gl.Str("uSpikeDrive\x00"))
	r.uBlendK = gl.GetUniformLocation(prog, gl.Str("uBlendK\x00"))
	r.uGlowStrength = gl.GetUniformLocation(prog, gl.Str("uGlowStrength\x00"))
	r.uColCore = gl.GetUniformLocation(prog, gl.Str("uColCore\x00"))
	r.uColMid = gl.GetUniformLocation(prog, gl.Str("uColMid\x00"))
	r.uColTip = gl.GetUniformLocation(prog, gl.Str("uColTip\x00"))
	r.uColGlow = gl.GetUniformLocation(prog, gl.Str("uColGlow\x00"))
	r.uBlobs = gl.GetUniformLocation(prog, gl.Str("uBlobs\x00"))
	r.uNumBlobs = gl.GetUniformLocation(prog, gl.Str("uNumBlobs\x00"))

	gl.BindVertexArray(0)
	return r, nil
}

// Resize updates projection parameters only; simulation state is
// untouched.
func (r *Renderer) Resize(width, height int) {
	if width > 0 && height > 0 {
		r.width = width
		r.height = height
	}
}

// Draw renders one settled frame snapshot. The snapshot is read-only
// here; the simulation may start mutating the store again as soon as
// Draw returns since the blob data has been handed to the driver.
func (r *Renderer) Draw(snap *FrameSnapshot) {
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(r.prog)
	gl.BindVertexArray(r.vao)

	gl.Uniform2f(r.uResolution, float32(r.width), float32(r.height))
	gl.Uniform1f(r.uTime, snap.Time)
	gl.Uniform1f(r.uTreble, snap.Treble)
	gl.Uniform1f(r.uVolume, snap.Volume)
	gl.Uniform1f(r.uSpikeDrive, snap.SpikeDrive)
	gl.Uniform1f(r.uBlendK, snap.BlendK)
	gl.Uniform1f(r.uGlowStrength, snap.GlowStrength)
	gl.Uniform3f(r.uColCore, snap.Colors.Core[0], snap.Colors.Core[1], snap.Colors.Core[2])
	gl.Uniform3f(r.uColMid, snap.Colors.Mid[0], snap.Colors.Mid[1], snap.Colors.Mid[2])
	gl.Uniform3f(r.uColTip, snap.Colors.Tip[0], snap.Colors.Tip[1], snap.Colors.Tip[2])
	gl.Uniform3f(r.uColGlow, snap.Colors.Glow[0], snap.Colors.Glow[1], snap.Colors.Glow[2])
	gl.Uniform4fv(r.uBlobs, MaxBlobs, &snap.Blobs[0])
	gl.Uniform1i(r.uNumBlobs, int32(snap.Count))

	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

// Destroy releases the program and buffers. Safe to call more than once.
func (r *Renderer) Destroy() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.prog != 0 {
		gl.DeleteProgram(r.prog)
		r.prog = 0
	}
}
