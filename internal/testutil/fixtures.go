package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleJSON is a small troubleshooting dataset. The symptom id field comes
// first so the description rule picks "Description".
//
// Categories: Cooling, Électricité, Plumbing. The Plumbing/Leak group has two
// records; the Plumbing/Pressure "/" support action is never listed.
const SampleJSON = `[
  {"Code": "S-12", "Description": "Water pooling", "Category": "Plumbing", "Sub issue": "Leak", "Support action": "Replace seal", "Actions for field team": "Check seal", "Spare part": "Gasket", "SOP": "https://sop.example/leak"},
  {"Code": "S-12", "Description": "Water pooling", "Category": "Plumbing", "Sub issue": "Leak", "Support action": "Replace seal", "Actions for field team": "Tighten bolt", "Spare part": "/", "SOP": "https://sop.example/leak"},
  {"Code": "S-13", "Description": "Low pressure", "Category": "Plumbing", "Sub issue": "Pressure", "Support action": "Bleed valve", "Actions for field team": "Open bleed valve", "Spare part": "/", "SOP": "I"},
  {"Code": "S-14", "Description": "No water", "Category": "Plumbing", "Sub issue": "Pressure", "Support action": " / ", "Actions for field team": "Nothing", "Spare part": "", "SOP": ""},
  {"Code": "S-20", "Description": "Fan noise", "Category": "Cooling", "Sub issue": "Noise", "Support action": "Clean fan", "Actions for field team": "Remove dust", "Spare part": "", "SOP": "/"},
  {"Code": "S-21", "Description": "Overheating", "Category": "Cooling", "Sub issue": "Temperature", "Support action": "Check sensor", "Actions for field team": "", "Spare part": "Sensor", "SOP": "https://sop.example/sensor"},
  {"Code": "S-22", "Description": "Tripped breaker", "Category": "Électricité", "Sub issue": "Breaker", "Support action": "Reset breaker", "Actions for field team": "Flip breaker", "Spare part": "/", "SOP": ""}
]`

// SampleCSV holds the first three SampleJSON records as CSV.
const SampleCSV = `Code,Description,Category,Sub issue,Support action,Actions for field team,Spare part,SOP
S-12,Water pooling,Plumbing,Leak,Replace seal,Check seal,Gasket,https://sop.example/leak
S-12,Water pooling,Plumbing,Leak,Replace seal,Tighten bolt,/,https://sop.example/leak
S-13,Low pressure,Plumbing,Pressure,Bleed valve,Open bleed valve,/,I
`

// WriteFile writes content to name inside a fresh temp dir and returns the
// path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
