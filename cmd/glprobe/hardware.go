//go:build !nogpu

package main

import (
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/glstore"
	"github.com/gogpu/glstore/internal/glcore"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

// openHardware creates a hidden 3.2 core window and a Storage on its
// context.
func openHardware(opts []glstore.Option) (*glstore.Storage, func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("glfw: %w", err)
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(64, 64, "glprobe", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("glfw: %w", err)
	}
	win.MakeContextCurrent()

	fns, err := glcore.Init()
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, nil, err
	}
	log.Printf("OpenGL %s", fns.Version())

	effects := glcore.NewEffects()
	// the desktop profile reads back with GetTexImage
	st, err := glstore.New(fns, effects, nil, append([]glstore.Option{glstore.WithConfig(desktopConfig())}, opts...)...)
	if err != nil {
		effects.Release()
		win.Destroy()
		glfw.Terminate()
		return nil, nil, err
	}
	return st, func() {
		st.Close()
		effects.Release()
		win.Destroy()
		glfw.Terminate()
	}, nil
}

func desktopConfig() glstore.Config {
	cfg := glstore.DefaultConfig()
	cfg.DesktopGL = true
	cfg.S3TC = true
	cfg.RGTC = true
	cfg.ETC2 = false
	return cfg
}
