package core

import (
	"crypto/sha512"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildlock/internal/types"
)

func TestDigestFormat(t *testing.T) {
	data := []byte("artifact bytes")
	sum := sha512.Sum512(data)

	got, err := Digest(data)
	require.NoError(t, err)
	assert.Equal(t, "sha512:"+base64.StdEncoding.EncodeToString(sum[:]), got)
}

func TestDigestDeterministicAndDistinct(t *testing.T) {
	first, err := Digest([]byte("one"))
	require.NoError(t, err)
	again, err := Digest([]byte("one"))
	require.NoError(t, err)
	other, err := Digest([]byte("two"))
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
}

func TestDigestRejectsNil(t *testing.T) {
	_, err := Digest(nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = Digest([]byte{})
	require.NoError(t, err)
}

func TestDigestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "core-1.0.jar")
	require.NoError(t, os.WriteFile(path, []byte("jar content"), 0644))

	got, err := DigestFile(path)
	require.NoError(t, err)
	want, err := Digest([]byte("jar content"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	empty := filepath.Join(dir, "empty.jar")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = DigestFile(empty)
	require.NoError(t, err)
}

func TestDigestFileErrors(t *testing.T) {
	_, err := DigestFile("")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = DigestFile(filepath.Join(t.TempDir(), "missing.jar"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestParseIntegrity(t *testing.T) {
	valid, err := Digest([]byte("x"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		raw     string
		want    types.Integrity
		wantErr bool
	}{
		{name: "calculated", raw: valid, want: types.CalculatedIntegrity(valid)},
		{name: "folder", raw: "folder", want: types.FolderIntegrity()},
		{name: "ignored", raw: "ignored", want: types.IgnoredIntegrity()},
		{name: "surrounding whitespace", raw: "  ignored\n", want: types.IgnoredIntegrity()},
		{name: "other algorithm", raw: "sha256:abcd", wantErr: true},
		{name: "no header", raw: "deadbeef", wantErr: true},
		{name: "truncated sha512", raw: "sha512:AAAA", wantErr: true},
		{name: "not base64", raw: "sha512:!!!", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntegrity(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
