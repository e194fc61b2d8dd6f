// Package shell provides the build command adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/parcel/internal/core/domain"
	"go.trai.ch/parcel/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Builder = (*Builder)(nil)

// Builder implements ports.Builder by running the package's build command in a pty.
type Builder struct {
	logger         ports.Logger
	defaultCommand []string
}

// NewBuilder creates a new Builder. defaultCommand is used for packages that declare none.
func NewBuilder(logger ports.Logger, defaultCommand []string) *Builder {
	return &Builder{
		logger:         logger,
		defaultCommand: defaultCommand,
	}
}

// Compile runs the build command of the project's package in the package root.
// It merges environments with the following priority (low to high):
// 1. allow-listed system variables
// 2. PARCEL_* variables describing the build
// 3. the package's [build].env table
func (b *Builder) Compile(ctx context.Context, project *domain.Project, opts domain.CompileOptions) error {
	pkg := project.Package

	command := pkg.Build.Command
	if len(command) == 0 {
		command = b.defaultCommand
	}
	if len(command) == 0 {
		b.logger.Warn("no build command configured for `" + pkg.Name + "`, nothing was compiled")
		return nil
	}

	name := command[0]
	args := command[1:]

	cmdEnv := resolveEnvironment(os.Environ(), buildVariables(project, opts), pkg.Build.Env)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command

	// Restore the original command name in Args[0]
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = pkg.Root
	cmd.Env = cmdEnv

	if err := b.run(cmd); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(zerr.Wrap(err, domain.ErrBuildFailed.Error()), "package", pkg.ID().String())
	}
	return nil
}

// run starts cmd in a pty and streams its output to the logger line by line.
func (b *Builder) run(cmd *exec.Cmd) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	out := &logWriter{logger: b.logger}
	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// Reading the pty fails with EIO once the child exits.
		_, _ = io.Copy(out, ptmx)
		_ = out.Close()
	}()

	err = cmd.Wait()
	<-ioDone
	return err
}

// buildVariables describes the requested build to the build command.
func buildVariables(project *domain.Project, opts domain.CompileOptions) map[string]string {
	pkg := project.Package
	mode := opts.Mode
	if mode == "" {
		mode = domain.CompileModeBuild
	}

	vars := map[string]string{
		"PARCEL_PROFILE":      mode,
		"PARCEL_TARGET_DIR":   project.TargetDir,
		"PARCEL_PKG_NAME":     pkg.Name,
		"PARCEL_PKG_VERSION":  pkg.Version,
		"PARCEL_MANIFEST_DIR": pkg.Root,
	}
	if opts.Jobs > 0 {
		vars["PARCEL_JOBS"] = strconv.Itoa(opts.Jobs)
	}
	if len(opts.Targets) > 0 {
		vars["PARCEL_TARGETS"] = strings.Join(opts.Targets, ",")
	}
	if len(opts.Features) > 0 {
		vars["PARCEL_FEATURES"] = strings.Join(opts.Features, ",")
	}
	if opts.AllFeatures {
		vars["PARCEL_ALL_FEATURES"] = "1"
	}
	if opts.NoDefaultFeatures {
		vars["PARCEL_NO_DEFAULT_FEATURES"] = "1"
	}
	if len(opts.DenyLints) > 0 {
		vars["PARCEL_DENY_LINTS"] = strings.Join(opts.DenyLints, ",")
	}
	return vars
}

type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs may introduce \r. Remove it.
	w.logger.Info(strings.TrimSuffix(string(line), "\r"))
}

// allowListedEnvVars are the system environment variables inherited by the build command.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

// resolveEnvironment merges environment variables with the defined priority.
// The result is sorted by key.
func resolveEnvironment(sysEnv []string, buildEnv, pkgEnv map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	maps.Copy(envMap, buildEnv)
	maps.Copy(envMap, pkgEnv)

	result := make([]string, 0, len(envMap))
	for _, k := range slices.Sorted(maps.Keys(envMap)) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
