package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foomo/contentserver-richtext/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const document = `{"nodeType":"document","content":[
	{"nodeType":"paragraph","content":[{"nodeType":"text","value":"Hello","marks":[{"type":"bold"}]}]}
]}`

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"cmd", "--http", "--plain", "-c", "site.yaml"})
	require.NoError(t, err)
	assert.Equal(t, useConfigAddr, opts.httpAddr)
	assert.True(t, opts.plain)
	assert.True(t, opts.stdio)
	assert.Equal(t, "site.yaml", opts.configPath)

	opts, err = parseFlags([]string{"cmd", "--http=:9090"})
	require.NoError(t, err)
	assert.Equal(t, ":9090", opts.httpAddr)

	_, err = parseFlags([]string{"cmd", "--unknown"})
	require.Error(t, err)
}

func TestRunRender(t *testing.T) {
	var out bytes.Buffer
	opts := &options{render: "-", plain: true}
	require.NoError(t, run(context.Background(), zap.NewNop(), opts, strings.NewReader(document), &out))
	assert.Equal(t, "<p><strong>Hello</strong></p>\n", out.String())
}

func TestRunRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), zap.NewNop(), &options{render: path}, nil, &out))
	assert.Contains(t, out.String(), `<p class="mb-4 leading-relaxed"><strong>Hello</strong></p>`)
}

func TestRunDump(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), zap.NewNop(), &options{dump: "-"}, strings.NewReader(document), &out))
	assert.Contains(t, out.String(), `NodeType: (string) (len=9) "paragraph"`)

	err := run(context.Background(), zap.NewNop(), &options{dump: "-"}, strings.NewReader(`[1]`), &out)
	require.Error(t, err)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: wordpress\n"), 0o600))
	err := run(context.Background(), zap.NewNop(), &options{configPath: path, stdio: true}, nil, &bytes.Buffer{})
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewServiceWithoutSource(t *testing.T) {
	cfg := config.Default()
	svc, err := newService(cfg, newRenderer(cfg, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, svc)

	cfg.Source = config.SourceContentful
	_, err = newService(cfg, newRenderer(cfg, zap.NewNop()), zap.NewNop())
	require.Error(t, err)
}
