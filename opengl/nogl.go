//go:build nogl

package opengl

import (
	"fmt"
	"os"

	shoal "github.com/sowasser/fish-shoaling-model"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Step       func() error
	ForcePause bool

	// Bounds of default viewport.
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// Run returns an error explaining that OpenGL support is disabled.
func Run(s *shoal.Simulation, conf *Config) error {
	return fmt.Errorf("%s was built without OpenGL support", os.Args[0])
}
