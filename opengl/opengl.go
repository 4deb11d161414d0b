//go:build !nogl

// Package opengl displays shoal simulations in an interactive OpenGL window.
//
// Space pauses and resumes the simulation, right arrow performs a single step
// while paused, tab and shift tab cycle through focal fish whose neighbors
// are highlighted, R resets the view, scrolling zooms and Esc quits.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	shoal "github.com/sowasser/fish-shoaling-model"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Step       func() error // go to next step
	ForcePause bool         // step manually only?

	// bounds of default viewport
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// Run runs an interactive simulation in an OpenGL window.
// It must be called from the main thread, see runtime.LockOSThread.
func Run(s *shoal.Simulation, conf *Config) error {
	// init GLFW and OpenGL
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	// create OpenGL window
	const (
		title  = "Shoal"
		width  = 800
		height = 800
	)
	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return err
	}
	w.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return err
	}

	// set background color and enable alpha blending
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	w.SwapBuffers()

	// initialize OpenGL objects
	d, err := newDisplay(len(s.Shoal))
	if err != nil {
		return err
	}

	// handle scrolling zoom
	home := viewport{{float32(conf.Xmin), float32(conf.Ymin)}, {float32(conf.Xmax), float32(conf.Ymax)}}
	vp := home
	focal := -1 // index of the fish whose neighbors are highlighted
	w.SetScrollCallback(func(w *glfw.Window, xo, yo float64) {
		xc, yc := w.GetCursorPos()
		xs, ys := w.GetSize()
		x, y := float32(xc)/float32(xs), (float32(ys)-float32(yc))/float32(ys)
		dx, dy := vp[1].X-vp[0].X, vp[1].Y-vp[0].Y
		z := 0.05 * float32(yo)
		vp[0].X += z * (x * dx)
		vp[0].Y += z * (y * dy)
		vp[1].X -= z * (1 - x) * dx
		vp[1].Y -= z * (1 - y) * dy
		d.draw(s, focal, vp)
		w.SwapBuffers()
	})

	var quit, step bool
	pause := conf.ForcePause
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, mod glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			quit = true
		}
		if key == glfw.KeySpace && action == glfw.Press && !conf.ForcePause {
			pause = !pause
		}
		if key == glfw.KeyRight && (action == glfw.Press || action == glfw.Repeat) {
			if pause {
				step = true
			}
		}
		if key == glfw.KeyTab && action == glfw.Press {
			// cycle through fish, then disable (focal = -1)
			n := len(s.Shoal)
			if mod&glfw.ModShift != 0 {
				focal--
			} else {
				focal++
			}
			focal = (n+focal+2)%(n+1) - 1
		}
		if key == glfw.KeyR && action == glfw.Press {
			vp = home
		}
	})

	for !(quit || w.ShouldClose()) {
		if step || !pause {
			step = false
			if err := conf.Step(); err != nil {
				return err
			}
		}
		d.draw(s, focal, vp)
		w.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// A viewport is a rectangle delimiting the area of simulation space shown on screen.
// The first point is the bottom left corner, the second point is the top right corner.
type viewport [2]struct{ X, Y float32 }

// display contains all the OpenGL objects required to display the simulation.
type display struct {
	vao  uint32    // vertex array object
	vbo  uint32    // vertex buffer
	prog uint32    // shader program
	vp   int32     // viewport uniform
	mesh []float32 // vertex data
}

// draw updates the OpenGL buffers and draws the fish on screen.
func (d *display) draw(s *shoal.Simulation, focal int, vp viewport) {
	gl.UseProgram(d.prog)
	gl.Uniform2fv(d.vp, 2, &vp[0].X)

	d.mesh = mesh(d.mesh, s, focal)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	if len(d.mesh) > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, 4*len(d.mesh), gl.Ptr(d.mesh))
	}

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(d.mesh)/vertexSize))
}

// newDisplay compiles shaders and initializes a display.
func newDisplay(population int) (*display, error) {
	d := &display{mesh: make([]float32, 0, 3*vertexSize*population)}

	// compile and link shaders
	var err error
	d.prog, err = makeProg([]shader{
		{"Vertex", vertexShader, gl.CreateShader(gl.VERTEX_SHADER)},
		{"Fragment", fragmentShader, gl.CreateShader(gl.FRAGMENT_SHADER)},
	})
	if err != nil {
		return nil, err
	}

	// uniform location cannot be specified in the shaders in OpenGL 3.3 core
	d.vp = gl.GetUniformLocation(d.prog, gl.Str("vp\x00"))

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*cap(d.mesh), nil, gl.STREAM_DRAW)

	// attribute locations are specified in the shaders with layout(location=n)
	const stride = int32(vertexSize * unsafe.Sizeof(float32(0)))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(2*4))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return d, nil
}

const vertexShader = `
#version 330 core
layout(location = 0) in vec2 pos;
layout(location = 1) in vec3 color;
uniform vec2 vp[2];
out vec3 fcolor;
void main() {
	gl_Position = vec4(2 * (pos - vp[0]) / (vp[1] - vp[0]) - 1, 0, 1);
	fcolor = color;
}
`

const fragmentShader = `
#version 330 core
in vec3 fcolor;
out vec4 color;
void main() {
	color = vec4(fcolor, 1);
}
`

// A shader wraps an OpenGL shader.
type shader struct {
	name   string
	src    string
	shader uint32
}

// makeProg builds OpenGL programs.
func makeProg(shaders []shader) (uint32, error) {
	var msg string
	for _, s := range shaders {
		str, free := gl.Strs(s.src + "\x00")
		gl.ShaderSource(s.shader, 1, str, nil)
		free()
		gl.CompileShader(s.shader)
		var status int32
		gl.GetShaderiv(s.shader, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(s.shader, gl.INFO_LOG_LENGTH, &n)
			log := make([]uint8, n+1)
			gl.GetShaderInfoLog(s.shader, n, &n, &log[0])
			msg += fmt.Sprintf("%s shader: %s\n", s.name, gl.GoStr(&log[0]))
			gl.DeleteShader(s.shader)
		}
	}
	if msg != "" {
		return 0, fmt.Errorf("opengl: GLSL errors:\n%s", msg)
	}
	prog := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(prog, s.shader)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		var n int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
		log := make([]uint8, n+1)
		gl.GetProgramInfoLog(prog, n, &n, &log[0])
		return 0, fmt.Errorf("opengl: link error: %s", gl.GoStr(&log[0]))
	}
	return prog, nil
}
