package registry

import (
	"testing"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flattenStudyJSON = `{
	"_type": "study",
	"properties": {
		"_type": "properties",
		"study_name": "Attention",
		"study_id": "attention_2026",
		"created_by": "researcher@example.org",
		"instructions": "",
		"post_url": "",
		"empty_msg": "",
		"banner_url": "",
		"support_url": "",
		"support_email": "",
		"cache": false,
		"ethics": "",
		"pls": "",
		"conditions": []
	},
	"modules": [
		{
			"_type": "module",
			"id": "diary",
			"name": "Daily diary",
			"condition": "*",
			"alerts": {
				"title": "Diary",
				"message": "Fill in your diary",
				"scheduleMode": "absolute",
				"startDateTime": "2026-09-01T09:00:00",
				"repeat": "never",
				"times": []
			},
			"graph": {"display": false},
			"unlock_after": [],
			"params": {
				"type": "survey",
				"id": "survey_diary",
				"submit_text": "Submit",
				"shuffle": false,
				"sections": [
					{
						"_type": "section",
						"id": "sec_a",
						"name": "A",
						"shuffle": false,
						"questions": [
							{"_type": "question", "type": "yesno", "id": "q_slept", "text": "Slept well?", "yes_text": "Yes", "no_text": "No"},
							{"_type": "question", "type": "slider", "id": "q_mood", "text": "Mood", "min": 0, "max": 10}
						]
					}
				]
			}
		},
		{
			"_type": "module",
			"id": "reaction",
			"name": "Reaction task",
			"condition": "*",
			"alerts": {
				"title": "Reaction",
				"message": "Do the task",
				"scheduleMode": "absolute",
				"startDateTime": "2026-09-01T18:00:00",
				"repeat": "never",
				"times": []
			},
			"graph": {"display": false},
			"unlock_after": [],
			"params": {
				"type": "pvt",
				"id": "pvt_main",
				"trials": 10,
				"min_waiting": 1000,
				"max_waiting": 4000,
				"max_reaction": 2000,
				"show": true,
				"exit": true
			}
		}
	]
}`

func parseFlattenStudy(t *testing.T) *models.Study {
	t.Helper()
	study, err := models.ParseStudy([]byte(flattenStudyJSON))
	require.NoError(t, err)
	return study
}

func TestFlatten_FieldOrder(t *testing.T) {
	study := parseFlattenStudy(t)
	fields := Flatten(study)

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.FieldName)
	}

	assert.Equal(t, []string{
		"field_record_id",
		"field_response_time_in_ms_0",
		"field_response_time_0",
		"field_q_slept",
		"field_q_mood",
		"field_response_time_in_ms_1",
		"field_response_time_1",
		"field_pvt_main",
	}, names)
}

func TestFlatten_RecordIDOnFirstModuleOnly(t *testing.T) {
	study := parseFlattenStudy(t)
	fields := Flatten(study)

	count := 0
	for _, f := range fields {
		if f.FieldName == "field_record_id" {
			count++
			assert.Equal(t, "module_diary", f.FormName)
		}
	}
	assert.Equal(t, 1, count)
}

func TestFlatten_DescriptorShape(t *testing.T) {
	study := parseFlattenStudy(t)
	fields := Flatten(study)

	for _, f := range fields {
		assert.Equal(t, "text", f.FieldType)
		assert.NotEmpty(t, f.FormName)
	}

	// question descriptors carry the question text as the label
	assert.Equal(t, "Slept well?", fields[3].FieldLabel)
}

func TestRepeatingForms_OnePerModule(t *testing.T) {
	study := parseFlattenStudy(t)
	forms := RepeatingForms(study)

	require.Len(t, forms, 2)
	assert.Equal(t, "module_diary", forms[0].FormName)
	assert.Equal(t, "module_reaction", forms[1].FormName)
}

func TestNamingHelpers(t *testing.T) {
	assert.Equal(t, "module_diary", FormName("diary"))
	assert.Equal(t, "field_q1", RecordFieldName("q1"))
	assert.Equal(t, "field_response_time_in_ms_2", ResponseTimeInMSField(2))
	assert.Equal(t, "field_response_time_2", ResponseTimeField(2))
}
