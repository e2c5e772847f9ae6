package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	records := []Record{
		{APIKey: "Bearer gsk_abc", Model: "llama3-8b-8192"},
		{APIKey: "Bearer with \"quotes\" and \\ slashes", Model: "gemma-7b-it"},
		{APIKey: "Bearer ключ-🔑", Model: "mixtral-8x7b-32768"},
	}

	for _, want := range records {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, Save(path, want))

		got, err := Load(path)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestSave_OverwritesLongerContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	long := Record{APIKey: "Bearer a-very-long-key-that-takes-up-space", Model: "mixtral-8x7b-32768"}
	short := Record{APIKey: "Bearer k", Model: "gemma-7b-it"}

	require.NoError(t, Save(path, long))
	require.NoError(t, Save(path, short))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, short, got)
}

func TestSave_InvalidRecordLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	orig := Record{APIKey: "Bearer k", Model: "gemma-7b-it"}
	require.NoError(t, Save(path, orig))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = Save(path, Record{APIKey: "Bearer k"})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSave_WritesWireShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Save(path, Record{APIKey: "Bearer k", Model: "gemma-7b-it"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"api_key":"Bearer k","model":"gemma-7b-it"}`, string(data))
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    error
	}{
		{name: "missing file", content: nil, want: ErrNotFound},
		{name: "zero length", content: strPtr(""), want: ErrEmpty},
		{name: "whitespace only", content: strPtr("  \n\t"), want: ErrEmpty},
		{name: "not json", content: strPtr("api_key=abc"), want: ErrMalformed},
		{name: "truncated json", content: strPtr(`{"api_key":"Bearer k",`), want: ErrMalformed},
		{name: "json array", content: strPtr(`["Bearer k","gemma-7b-it"]`), want: ErrMalformed},
		{name: "json null", content: strPtr(`null`), want: ErrMalformed},
		{name: "missing model", content: strPtr(`{"api_key":"Bearer k"}`), want: ErrMalformed},
		{name: "missing api key", content: strPtr(`{"model":"gemma-7b-it"}`), want: ErrMalformed},
		{name: "empty model", content: strPtr(`{"api_key":"Bearer k","model":""}`), want: ErrMalformed},
		{name: "wrong type", content: strPtr(`{"api_key":42,"model":"gemma-7b-it"}`), want: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o600))
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, Recoverable(err), "every load failure here should route to setup")
		})
	}
}

func TestLoad_IgnoresUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_key":"Bearer k","model":"gemma-7b-it","theme":"dark"}`), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Record{APIKey: "Bearer k", Model: "gemma-7b-it"}, got)
}

func TestCreate(t *testing.T) {
	t.Run("creates empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.json")
		assert.False(t, Exists(path))

		require.NoError(t, Create(path))
		assert.True(t, Exists(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Zero(t, info.Size())

		_, err = Load(path)
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("keeps existing content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		rec := Record{APIKey: "Bearer k", Model: "llama3-70b-8192"}
		require.NoError(t, Save(path, rec))

		require.NoError(t, Create(path))

		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
	})
}

func TestRecoverable_IOErrorIsFatal(t *testing.T) {
	// A directory at the config path cannot be read as a file.
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.False(t, Recoverable(err))
}

func TestStore_BindsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := New(path)
	assert.False(t, s.Exists())

	require.NoError(t, s.Create())
	assert.True(t, s.Exists())

	rec := Record{APIKey: "Bearer k", Model: "llama3-8b-8192"}
	require.NoError(t, s.Save(rec))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func strPtr(s string) *string { return &s }
