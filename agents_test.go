package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdviceMessage(t *testing.T) {
	got := adviceMessage("Data Scientist", []string{"Python"}, nil)
	want := "Target Career:\nData Scientist\n\nSkills I have:\nPython\n\nSkills I am missing:\nnone"
	assert.Equal(t, want, got)

	got = adviceMessage("Cloud Architect", nil, []string{"AWS", "GCP"})
	assert.Contains(t, got, "Skills I have:\nnone")
	assert.Contains(t, got, "Skills I am missing:\nAWS, GCP")
}

func TestParseAdvice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "fenced plan",
			raw:  "```json\n{\"career\":\"DevOps Engineer\",\"summary\":\"Start with Linux\",\"priority\":[{\"skill\":\"Linux\",\"reason\":\"base\",\"weeks\":3}]}\n```",
			want: `{"career":"DevOps Engineer","summary":"Start with Linux","priority":[{"skill":"Linux","reason":"base","weeks":3}]}`,
		},
		{
			name: "summary only",
			raw:  `{"summary":"You already cover every skill"}`,
			want: `{"summary":"You already cover every skill"}`,
		},
		{name: "prose", raw: "Sure! Here is your plan.", wantErr: true},
		{name: "empty plan", raw: `{"career":"x"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAdvice(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, got)
		})
	}
}
