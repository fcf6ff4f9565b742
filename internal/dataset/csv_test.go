package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Path,Sex,Age,Frontal/Lateral,AP/PA,Atelectasis,Cardiomegaly,Edema
CheXpert-v1.0-small/train/patient00001/study1/view1_frontal.jpg,Female,68,Frontal,AP,-1.0,1.0,
CheXpert-v1.0-small/train/patient00001/study2/view1_frontal.jpg,Female,68,Frontal,AP,0.0,-1.0,1.0
CheXpert-v1.0-small/valid/patient64541/study1/view1_frontal.jpg,Male,73,Frontal,PA,1.0,0.0,0.0
`

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Atelectasis", "Cardiomegaly", "Edema"}, ds.Findings)
	require.Len(t, ds.Records, 3)

	first := ds.Records[0]
	assert.Equal(t, "patient00001", first.PatientID)
	assert.Equal(t, "study1", first.StudyID)
	assert.Equal(t, Train, first.Split)
	assert.Equal(t, "Female", first.Sex)
	assert.Equal(t, Uncertain, first.Labels["Atelectasis"])
	assert.Equal(t, Positive, first.Labels["Cardiomegaly"])
	assert.Equal(t, Absent, first.Labels["Edema"])

	valid := ds.Subset(Valid)
	require.Len(t, valid, 1)
	assert.Equal(t, "patient64541", valid[0].PatientID)
}

func TestReadCSVInvalidLabel(t *testing.T) {
	bad := `Path,Atelectasis
CheXpert-v1.0-small/train/patient00001/study1/view1_frontal.jpg,maybe
`
	_, err := ReadCSV(strings.NewReader(bad))
	var lerr *InvalidLabelValueError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "Atelectasis", lerr.Column)
	assert.Equal(t, 2, lerr.Line)
	assert.Equal(t, "maybe", lerr.Value)
}

func TestReadCSVBadPath(t *testing.T) {
	bad := `Path,Atelectasis
not-a-dataset-path.jpg,1.0
`
	_, err := ReadCSV(strings.NewReader(bad))
	var perr *PathParseError
	require.ErrorAs(t, err, &perr)
}

func TestWriteLabeled(t *testing.T) {
	recs := []Record{
		{Path: "CheXpert-v1.0-small/train/patient00001/study1/view1_frontal.jpg"},
		{Path: "CheXpert-v1.0-small/train/patient00001/study2/view1_frontal.jpg"},
	}
	var sb strings.Builder
	err := WriteLabeled(&sb, recs, []string{"Atelectasis;Cardiomegaly", ""})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Path,Labels", lines[0])
	assert.Equal(t, "CheXpert-v1.0-small/train/patient00001/study1/view1_frontal.jpg,Atelectasis;Cardiomegaly", lines[1])
	// The empty derived set must serialize to an explicit empty string.
	assert.Equal(t, "CheXpert-v1.0-small/train/patient00001/study2/view1_frontal.jpg,", lines[2])
}

func TestWriteLabeledLengthMismatch(t *testing.T) {
	var sb strings.Builder
	err := WriteLabeled(&sb, []Record{{Path: "x"}}, nil)
	assert.Error(t, err)
}

func TestReadScores(t *testing.T) {
	csv := `Atelectasis,Cardiomegaly
0.25,0.9
0.75,0.1
`
	rows, err := ReadScores(strings.NewReader(csv), []string{"Cardiomegaly", "Atelectasis"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Columns come back in the requested order, not file order.
	assert.Equal(t, []float64{0.9, 0.25}, rows[0])
	assert.Equal(t, []float64{0.1, 0.75}, rows[1])
}

func TestReadScoresMissingColumn(t *testing.T) {
	csv := "Atelectasis\n0.5\n"
	_, err := ReadScores(strings.NewReader(csv), []string{"Edema"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Edema")
}

func TestReadScoresBadValue(t *testing.T) {
	csv := "Atelectasis\nhigh\n"
	_, err := ReadScores(strings.NewReader(csv), []string{"Atelectasis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
