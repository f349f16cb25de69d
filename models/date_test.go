package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateLayouts(t *testing.T) {
	for _, value := range []string{
		"2024-05-01T09:30:00",
		"2024-05-01T09:30:00.123456",
		"2024-05-01T09:30",
		"2024-05-01T09:30:00Z",
	} {
		d, err := ParseDate(value)
		require.NoError(t, err, value)
		assert.Equal(t, 2024, d.Year())
		assert.Equal(t, 9, d.Hour())
	}

	d, err := ParseDate("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.May, d.Month())

	_, err = ParseDate("01/05/2024")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var holder struct {
		A *Date `json:"a"`
		B *Date `json:"b"`
		C Date  `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":"2024-01-02","c":""}`), &holder))
	assert.Nil(t, holder.A)
	require.NotNil(t, holder.B)
	assert.True(t, holder.C.IsZero())
	assert.Equal(t, time.Time{}, DateOrZero(holder.A))

	out, err := json.Marshal(holder)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":"2024-01-02T00:00:00","c":null}`, string(out))
}

func TestNextRevision(t *testing.T) {
	attachments := []Attachment{
		{TaskID: 1, FileName: "plan.pdf", RevisionNumber: 1},
		{TaskID: 1, FileName: "PLAN.pdf", RevisionNumber: 2.5},
		{TaskID: 1, FileName: "notes.txt", RevisionNumber: 7},
		{TaskID: 2, FileName: "plan.pdf", RevisionNumber: 9},
	}
	assert.Equal(t, 3.0, NextRevision(attachments, 1, "plan.pdf"))
	assert.Equal(t, 8.0, NextRevision(attachments, 1, "notes.txt"))
	assert.Equal(t, 1.0, NextRevision(attachments, 3, "plan.pdf"))
}

func TestProjectInputToProject(t *testing.T) {
	team := int64(5)
	p := ProjectInput{Name: "n", TeamID: &team}.ToProject(9)
	assert.Equal(t, StatusTodo, p.Status)
	assert.Equal(t, PriorityMedium, p.Priority)
	require.NotNil(t, p.Team)
	assert.Equal(t, int64(5), p.Team.ID)
	assert.Nil(t, p.Employee)
	assert.Equal(t, int64(9), EmployeeRef(p.CreatedBy))
}
