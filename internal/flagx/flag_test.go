package flagx

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Fixtures mirror the server's real flag split: -a/-d/-s belong to the
// server flag set, -c/-config to the JSON config loader.
func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "config flag kept, server flags dropped",
			args:         []string{"-c", "server.json", "-a", ":8080"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "server.json"},
		},
		{
			name:         "equals form kept",
			args:         []string{"--config=server.json", "-d", "postgres://localhost/teamspace"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=server.json"},
		},
		{
			name:         "server flags kept, config flag dropped",
			args:         []string{"-a", ":8080", "-c", "server.json", "-m"},
			allowedFlags: []string{"-a", "-d", "-s", "-m"},
			want:         []string{"-a", ":8080", "-m"},
		},
		{
			name:         "both forms present, order preserved",
			args:         []string{"--config=first.json", "-c", "second.json", "-s", "hm"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:         "nothing allowed yields empty not nil",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value kept as-is",
			args:         []string{"-m"},
			allowedFlags: []string{"-m"},
			want:         []string{"-m"},
		},
		{
			name:         "dash token after allowed flag is not its value",
			args:         []string{"-c", "-m"},
			allowedFlags: []string{"-c", "-m"},
			want:         []string{"-c", "-m"},
		},
		{
			name:         "equals value may itself start with dashes",
			args:         []string{"--config=--weird.json"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--weird.json"},
		},
		{
			name:         "dsn with query string stays one argument",
			args:         []string{"-d", "postgres://u:p@db:5432/teamspace?sslmode=disable"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "postgres://u:p@db:5432/teamspace?sslmode=disable"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"teamspace-server", "-c", "/etc/teamspace/server.json"}
		assert.Equal(t, "/etc/teamspace/server.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"teamspace-server", "-config", "/etc/teamspace/alt.json"}
		assert.Equal(t, "/etc/teamspace/alt.json", JsonConfigFlags())
	})

	t.Run("server flags are ignored", func(t *testing.T) {
		os.Args = []string{"teamspace-server", "-a", ":8080", "-m"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("last occurrence wins", func(t *testing.T) {
		os.Args = []string{"teamspace-server", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", JsonConfigFlags())
	})
}
