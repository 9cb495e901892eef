package domain_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/blaze/internal/core/domain"
)

func TestNewBuildRequest(t *testing.T) {
	var out, errOut bytes.Buffer
	id := uuid.New()
	start := time.UnixMilli(1000)
	opts := domain.BuildOptions{Configuration: "opt", Mnemonics: []string{"Compile"}}
	startup := domain.StartupOptions{WorkspaceRoot: "/ws", IdleTimeout: time.Hour}
	targets := []string{"//src:app", "//lib/..."}

	req := domain.NewBuildRequest("build", opts, startup, targets, domain.NewOutErr(&out, &errOut), id, start)

	assert.Equal(t, "build", req.CommandName())
	assert.Equal(t, opts, req.Options())
	assert.Equal(t, startup, req.StartupOptions())
	assert.Equal(t, targets, req.Targets())
	assert.Same(t, &out, req.OutErr().Out())
	assert.Same(t, &errOut, req.OutErr().Err())
	assert.Equal(t, id, req.CommandID())
	assert.True(t, start.Equal(req.StartTime()))
}

func TestBuildRequest_IsImmutable(t *testing.T) {
	var buf bytes.Buffer
	targets := []string{"//a:a"}
	opts := domain.BuildOptions{Mnemonics: []string{"Compile"}}

	req := domain.NewBuildRequest("build", opts, domain.StartupOptions{}, targets,
		domain.NewOutErr(&buf, &buf), uuid.New(), time.Now())

	targets[0] = "//b:b"
	opts.Mnemonics[0] = "Link"
	req.Targets()[0] = "//c:c"
	req.Options().Mnemonics[0] = "Link"

	assert.Equal(t, []string{"//a:a"}, req.Targets())
	assert.Equal(t, []string{"Compile"}, req.Options().Mnemonics)
}

func TestNewBuildRequest_PanicsWithoutOutput(t *testing.T) {
	var buf bytes.Buffer

	assert.Panics(t, func() {
		domain.NewBuildRequest("build", domain.BuildOptions{}, domain.StartupOptions{}, nil,
			domain.OutErr{}, uuid.New(), time.Now())
	})
	assert.Panics(t, func() {
		domain.NewBuildRequest("build", domain.BuildOptions{}, domain.StartupOptions{}, nil,
			domain.NewOutErr(&buf, nil), uuid.New(), time.Now())
	})
}
