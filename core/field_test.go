package core

import (
	"errors"
	"testing"
	"time"
)

func TestField_StringValue(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"String field", Field{Type: StringType, Str: "hello"}, "hello"},
		{"Int field", Field{Type: IntType, Int64: 42}, "42"},
		{"Int64 field", Field{Type: Int64Type, Int64: 1234567890}, "1234567890"},
		{"Bool field (true)", Field{Type: BoolType, Int64: 1}, "true"},
		{"Bool field (false)", Field{Type: BoolType, Int64: 0}, "false"},
		{"Float64 field", Field{Type: Float64Type, Float64: 3.14}, "3.14"},
		{"Duration field", Field{Type: DurationType, Int64: int64(5 * time.Second)}, "5s"},
		{"Error field", Field{Type: ErrorType, Str: "an error occurred"}, "an error occurred"},
		{"Any field", Field{Type: AnyType, Any: errors.New("boxed")}, "boxed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.StringValue(); got != tt.want {
				t.Errorf("Field.StringValue() = %v, want %v", got, tt.want)
			}
		})
	}
}
