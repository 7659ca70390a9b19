package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabsData_Recount(t *testing.T) {
	labs := &LabsData{
		LabResults: []LabTest{
			{ID: "lab_001", TestName: "Creatinine", Value: "3.1", Status: LabStatusCritical},
			{ID: "lab_002", TestName: "BUN", Value: "42", Status: LabStatusAbnormalHigh},
			{ID: "lab_003", TestName: "Sodium", Value: "128", Status: LabStatusAbnormalLow},
			{ID: "lab_004", TestName: "WBC", Value: "7.2", Status: LabStatusNormal},
		},
	}

	summary := labs.Recount()
	assert.Equal(t, 4, summary.TotalTests)
	assert.Equal(t, 1, summary.CriticalCount)
	assert.Equal(t, 2, summary.AbnormalCount)
	assert.Equal(t, 1, summary.NormalCount)
}

func TestLabsData_RecountEmpty(t *testing.T) {
	labs := &LabsData{}
	summary := labs.Recount()
	assert.Equal(t, LabSummary{}, summary)
}
