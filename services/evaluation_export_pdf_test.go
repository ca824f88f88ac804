package services

import (
	"bytes"
	"testing"
)

func assertPDF(t *testing.T, b []byte, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Errorf("result does not start with PDF header")
	}
}

func TestGenerateEvaluationPDF(t *testing.T) {
	b, err := GenerateEvaluationPDF(sampleEvaluation())
	assertPDF(t, b, err)
}

func TestGenerateEvaluationPDF_WithSignatures(t *testing.T) {
	data := sampleEvaluation()
	data.PreparedSignature = tinyPNG(t)
	data.ApprovedSignature = tinyPNG(t)
	data.ApprovedBy = "Head of QA"

	b, err := GenerateEvaluationPDF(data)
	assertPDF(t, b, err)
}

func TestGenerateEvaluationPDF_Blank(t *testing.T) {
	b, err := GenerateEvaluationPDF(EvaluationExport{Summary: Summarize(NewSelection())})
	assertPDF(t, b, err)
}
