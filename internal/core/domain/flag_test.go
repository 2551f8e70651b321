package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/mach/internal/core/domain"
)

func TestFlag_Documented(t *testing.T) {
	tests := []struct {
		name string
		flag domain.Flag
		want bool
	}{
		{"cli with help", domain.Flag{Name: "CC", CLI: true, Help: "compiler"}, true},
		{"cli without help", domain.Flag{Name: "CC", CLI: true}, true},
		{"help without cli", domain.Flag{Name: "internal_only", Help: "not settable"}, false},
		{"neither", domain.Flag{Name: "quiet"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flag.Documented())
		})
	}
}
