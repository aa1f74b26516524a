// Package ffmpeg locates the external media tools the pipeline shells out to.
package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
)

// Environment variables for custom binary paths.
const (
	envFFmpegPath  = "FFMPEG_PATH"
	envFFprobePath = "FFPROBE_PATH"
)

// envProvider abstracts environment and path lookup operations.
type envProvider interface {
	Getenv(key string) string
	Stat(name string) (os.FileInfo, error)
	LookPath(file string) (string, error)
}

// osEnvProvider implements envProvider using the os and exec packages.
type osEnvProvider struct{}

func (osEnvProvider) Getenv(key string) string { return os.Getenv(key) }

func (osEnvProvider) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }

func (osEnvProvider) LookPath(file string) (string, error) { return exec.LookPath(file) }

// Compile-time interface verification.
var _ envProvider = osEnvProvider{}

// Resolver finds the ffmpeg and ffprobe binaries.
type Resolver struct {
	env envProvider
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEnvProvider sets the environment provider implementation.
func WithEnvProvider(e envProvider) ResolverOption {
	return func(r *Resolver) { r.env = e }
}

// NewResolver creates a Resolver with the given options.
// Uses production defaults if no options are provided.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{env: osEnvProvider{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds ffmpeg using the following precedence:
//  1. FFMPEG_PATH environment variable (error if set but invalid)
//  2. System PATH
func (r *Resolver) Resolve() (string, error) {
	return r.resolve("ffmpeg", envFFmpegPath, ErrNotFound)
}

// ResolveProbe finds ffprobe using the same precedence with FFPROBE_PATH.
func (r *Resolver) ResolveProbe() (string, error) {
	return r.resolve("ffprobe", envFFprobePath, ErrProbeNotFound)
}

func (r *Resolver) resolve(name, envKey string, sentinel error) (string, error) {
	if envPath := r.env.Getenv(envKey); envPath != "" {
		if _, err := r.env.Stat(envPath); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but the binary is missing",
				sentinel, envKey, envPath)
		}
		return envPath, nil
	}

	if path, err := r.env.LookPath(name); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w: install it or set %s", sentinel, envKey)
}
