package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethodNameRenames(t *testing.T) {
	tests := []struct {
		logical string
		want    string
	}{
		{"clone", "copy"},
		{"close", "finish"},
		{"new", "create"},
		{"default", "createDefault"},
		{"split_index", "splitIndex"},
		{"current_split_index", "currentSplitIndex"},
		{"drop", "drop"},
		{"new_with_name", "newWithName"},
	}
	for _, tt := range tests {
		t.Run(tt.logical, func(t *testing.T) {
			assert.Equal(t, tt.want, MethodName(tt.logical))
		})
	}
}

func TestExportedMethodName(t *testing.T) {
	assert.Equal(t, "Create", ExportedMethodName("new"))
	assert.Equal(t, "CreateDefault", ExportedMethodName("default"))
	assert.Equal(t, "SplitIndex", ExportedMethodName("split_index"))
}

func TestCasing(t *testing.T) {
	assert.Equal(t, "attemptCount", MixedCase("attempt_count"))
	assert.Equal(t, "AttemptCount", PascalCase("attempt_count"))
	assert.Equal(t, "", MixedCase(""))

	assert.Equal(t, "shared_timer", SnakeCase("SharedTimer"))
	assert.Equal(t, "run", SnakeCase("Run"))
	assert.Equal(t, "html_run", SnakeCase("HTMLRun"))
}

func TestPlaceholders(t *testing.T) {
	java := Placeholders{Null: "null", True: "true", False: "false"}
	assert.Equal(t, "Returns null if true.", java.Comment("Returns <NULL> if <TRUE>."))

	goLit := Placeholders{Null: "nil", True: "true", False: "false"}
	assert.Equal(t, "Returns nil when false.", goLit.Comment("Returns <NULL> when <FALSE>."))
}
