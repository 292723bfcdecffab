package naming

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot-sh/depot/internal/domain/entities"
)

func names(ns ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ns))
	for _, n := range ns {
		set[n] = struct{}{}
	}
	return set
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"photo.jpg", "photo.jpg", nil},
		{"  report.pdf ", "report.pdf", nil},
		{"dir/photo.jpg", "photo.jpg", nil},
		{"C:\\Users\\me\\photo.jpg", "photo.jpg", nil},
		{"/etc/passwd", "passwd", nil},
		{".bashrc", ".bashrc", nil},
		{"", "", entities.ErrEmptyName},
		{"..", "", entities.ErrInvalidName},
		{"../../etc/passwd", "passwd", nil},
		{"a..b.txt", "", entities.ErrInvalidName},
		{"nul\x00byte.txt", "", entities.ErrInvalidName},
		{"/", "", entities.ErrInvalidName},
		{"   ", "", entities.ErrInvalidName},
	}

	for _, tt := range tests {
		got, err := Sanitize(tt.in)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestResolveNoCollision(t *testing.T) {
	got, err := Resolve("photo.jpg", names("other.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", got)
}

func TestResolveSuffixProbing(t *testing.T) {
	got, err := Resolve("photo.jpg", names("photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "photo_1.jpg", got)

	got, err = Resolve("photo.jpg", names("photo.jpg", "photo_1.jpg", "photo_2.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "photo_3.jpg", got)
}

func TestResolveNoExtension(t *testing.T) {
	got, err := Resolve("README", names("README"))
	require.NoError(t, err)
	assert.Equal(t, "README_1", got)
}

func TestResolveDotfile(t *testing.T) {
	got, err := Resolve(".env", names(".env"))
	require.NoError(t, err)
	assert.Equal(t, ".env_1", got)
}

// Resolve must return a free name for any occupied set, and return the
// input itself exactly when the input is free.
func TestResolveProperty(t *testing.T) {
	existing := names()
	for i := 0; i < 200; i++ {
		got, err := Resolve("file.dat", existing)
		require.NoError(t, err)
		_, taken := existing[got]
		assert.False(t, taken, "iteration %d returned occupied name %q", i, got)
		if i == 0 {
			assert.Equal(t, "file.dat", got)
		}
		existing[got] = struct{}{}
	}
	assert.Len(t, existing, 200)
}

func TestResolveBounded(t *testing.T) {
	existing := names()
	existing["doc.txt"] = struct{}{}
	for i := 1; i <= 50; i++ {
		existing[fmt.Sprintf("doc_%d.txt", i)] = struct{}{}
	}
	got, err := Resolve("doc.txt", existing)
	require.NoError(t, err)
	assert.Equal(t, "doc_51.txt", got)
}
