package tables

import (
	"testing"

	"github.com/ngmaloney/nz-tides/internal/models"
)

func TestTablePath(t *testing.T) {
	if got := TablePath(models.MarsdenPoint, 2012); got != "marsden_point/2012.csv" {
		t.Errorf("TablePath() = %q, want marsden_point/2012.csv", got)
	}
}

func TestParseTablePath(t *testing.T) {
	tests := []struct {
		path     string
		wantPort models.Port
		wantYear int
		wantErr  bool
	}{
		{"auckland/2012.csv", models.Auckland, 2012, false},
		{"port_chalmers/2013.csv", models.PortChalmers, 2013, false},
		{"2012.csv", 0, 0, true},
		{"auckland/2012.txt", 0, 0, true},
		{"auckland/notes.csv", 0, 0, true},
		{"sydney/2012.csv", 0, 0, true},
		{"nested/auckland/2012.csv", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			port, year, err := ParseTablePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTablePath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if port != tt.wantPort || year != tt.wantYear {
				t.Errorf("ParseTablePath() = (%v, %d), want (%v, %d)", port, year, tt.wantPort, tt.wantYear)
			}
		})
	}
}
