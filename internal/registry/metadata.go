package registry

import (
	"fmt"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/models"
)

// FieldDescriptor is one flat field in the registry's metadata-import
// shape. Every attribute must be present on the wire; inapplicable ones
// stay empty strings.
type FieldDescriptor struct {
	FieldName                            string `json:"field_name"`
	FormName                             string `json:"form_name"`
	SectionHeader                        string `json:"section_header"`
	FieldType                            string `json:"field_type"`
	FieldLabel                           string `json:"field_label"`
	SelectChoicesOrCalculations          string `json:"select_choices_or_calculations"`
	FieldNote                            string `json:"field_note"`
	TextValidationTypeOrShowSliderNumber string `json:"text_validation_type_or_show_slider_number"`
	TextValidationMin                    string `json:"text_validation_min"`
	TextValidationMax                    string `json:"text_validation_max"`
	Identifier                           string `json:"identifier"`
	BranchingLogic                       string `json:"branching_logic"`
	RequiredField                        string `json:"required_field"`
	CustomAlignment                      string `json:"custom_alignment"`
	QuestionNumber                       string `json:"question_number"`
	MatrixGroupName                      string `json:"matrix_group_name"`
	MatrixRanking                        string `json:"matrix_ranking"`
	FieldAnnotation                      string `json:"field_annotation"`
}

type RepeatingForm struct {
	FormName        string `json:"form_name"`
	CustomFormLabel string `json:"custom_form_label"`
}

func FormName(moduleID string) string {
	return "module_" + moduleID
}

func RecordFieldName(questionID string) string {
	return "field_" + questionID
}

func ResponseTimeInMSField(moduleIndex int) string {
	return fmt.Sprintf("field_response_time_in_ms_%d", moduleIndex)
}

func ResponseTimeField(moduleIndex int) string {
	return fmt.Sprintf("field_response_time_%d", moduleIndex)
}

func descriptor(fieldName, formName, label string) FieldDescriptor {
	return FieldDescriptor{
		FieldName:  fieldName,
		FormName:   formName,
		FieldType:  "text",
		FieldLabel: label,
	}
}

// Flatten converts a validated study into the ordered flat field list the
// registry's metadata import expects. Order is significant: modules in
// document order, the record-id and timing fields ahead of content
// fields, so forms render the way the study is laid out. Pure, no I/O.
func Flatten(study *models.Study) []FieldDescriptor {
	var fields []FieldDescriptor

	for idx, module := range study.Modules {
		form := FormName(module.ID)
		if idx == 0 {
			fields = append(fields, descriptor("field_record_id", form, "Record ID"))
		}

		fields = append(fields,
			descriptor(ResponseTimeInMSField(idx), form, "Response Time (ms)"),
			descriptor(ResponseTimeField(idx), form, "Response Time"),
		)

		switch params := module.Params.(type) {
		case *models.Survey:
			for _, section := range params.Sections {
				for _, question := range section.Questions {
					base := question.Base()
					fields = append(fields, descriptor(RecordFieldName(base.ID), form, base.Text))
				}
			}
		default:
			fields = append(fields, descriptor(RecordFieldName(params.ParamsID()), form, "PVT results"))
		}
	}

	return fields
}

// RepeatingForms lists every module form for the repeating-instruments
// call; one call covers the whole study.
func RepeatingForms(study *models.Study) []RepeatingForm {
	forms := make([]RepeatingForm, 0, len(study.Modules))
	for _, module := range study.Modules {
		forms = append(forms, RepeatingForm{FormName: FormName(module.ID)})
	}
	return forms
}
