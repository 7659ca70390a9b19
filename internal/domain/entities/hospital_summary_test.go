package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimingData_LengthOfStayDays(t *testing.T) {
	tests := []struct {
		name      string
		admission string
		discharge string
		want      int
		wantErr   bool
	}{
		{
			name:      "plain dates",
			admission: "2025-01-01",
			discharge: "2025-01-05",
			want:      4,
		},
		{
			name:      "iso timestamps",
			admission: "2025-10-15T14:30:00Z",
			discharge: "2025-10-18T09:00:00Z",
			want:      2,
		},
		{
			name:      "same day",
			admission: "2025-03-10",
			discharge: "2025-03-10",
			want:      0,
		},
		{
			name:      "discharge before admission clamps to zero",
			admission: "2025-01-05",
			discharge: "2025-01-01",
			want:      0,
		},
		{
			name:      "malformed discharge date",
			admission: "2025-01-01",
			discharge: "not-a-date",
			wantErr:   true,
		},
		{
			name:      "malformed admission date",
			admission: "yesterday",
			discharge: "2025-01-01",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timing := &TimingData{AdmissionDate: tt.admission, DischargeDate: tt.discharge}
			got, err := timing.LengthOfStayDays()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
