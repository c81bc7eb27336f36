package main

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-dispatch/pkg/auth"
	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintFunctions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printFunctions(&buf, false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"VERB", "FUNCTION"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"GET", "echo"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"POST", "whoami"}, strings.Fields(lines[4]))

	buf.Reset()
	require.NoError(t, printFunctions(&buf, true))
	var fns []core.Function
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fns))
	assert.Len(t, fns, 4)
}

func TestIssueToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "token.pem")
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	now := time.Now()
	var buf bytes.Buffer
	require.NoError(t, issueToken(&buf, path, "ops", auth.RoleAdministrator, now))

	v := auth.NewValidator(&key.PublicKey, auth.WithClock(func() time.Time { return now }))
	id, err := v.Validate(strings.TrimSpace(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{Name: "ops", Role: auth.RoleAdministrator}, id)

	assert.Error(t, issueToken(&buf, filepath.Join(t.TempDir(), "nope.pem"), "ops", 1, now))
}
