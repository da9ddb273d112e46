package helper

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseStageRef(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		raw       string
		wantErr   bool
		wantOrder int
		wantID    uuid.UUID
	}{
		{raw: "1", wantOrder: 1},
		{raw: " 12 ", wantOrder: 12},
		{raw: "1000", wantOrder: 1000},
		{raw: id.String(), wantID: id},
		{raw: "0", wantErr: true},
		{raw: "-3", wantErr: true},
		{raw: "1001", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "etapa-1", wantErr: true},
		{raw: uuid.Nil.String(), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ref, err := ParseStageRef(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStageRef(%q) = %+v, want error", tt.raw, ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStageRef(%q): %v", tt.raw, err)
			}
			if tt.wantOrder > 0 {
				if !ref.IsOrder || ref.Order != tt.wantOrder {
					t.Errorf("got %+v, want order %d", ref, tt.wantOrder)
				}
				return
			}
			if ref.IsOrder || ref.ID != tt.wantID {
				t.Errorf("got %+v, want id %s", ref, tt.wantID)
			}
			if ref.String() != tt.wantID.String() {
				t.Errorf("String() = %q", ref.String())
			}
		})
	}
}
