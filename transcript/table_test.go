package transcript

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, []RenderSpec{
		{Start: 0, End: 2.5, Speaker: "00", Text: "안녕하세요"},
		{Start: 2.5, End: 4},
	})
	require.NoError(t, err)
	want := TableHeader + "\n" +
		"0.000\t2.500\t00\t안녕하세요\n" +
		"2.500\t4.000\t\t\n"
	assert.Equal(t, want, buf.String())
}

func TestReadTable(t *testing.T) {
	in := strings.Join([]string{
		TableHeader,
		"0.00\t2.50\t00\thello there",
		"2.50\tbad\t00\toops",
		"",
		"3.00\t4.00\tlegacy row",
		"4.00\t5.00",
		"garbage",
		"5.00\t6.00\t01\tsecond\tcolumn",
	}, "\n")

	results, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, results, 6)

	specs, rep := Specs(results)
	assert.Equal(t, 4, rep.Rows)
	require.Len(t, rep.Skipped, 2)
	assert.Equal(t, 3, rep.Skipped[0].Line)
	assert.Equal(t, 7, rep.Skipped[1].Line)
	for _, s := range rep.Skipped {
		assert.ErrorIs(t, s.Err, ErrMalformedLine)
	}

	assert.Equal(t, []RenderSpec{
		{Start: 0, End: 2.5, Speaker: "00", Text: "hello there"},
		{Start: 3, End: 4, Text: "legacy row"},
		{Start: 4, End: 5},
		{Start: 5, End: 6, Speaker: "01", Text: "second\tcolumn"},
	}, specs)
}

func TestReadTableSkipsNonFiniteTimes(t *testing.T) {
	in := strings.Join([]string{
		TableHeader,
		"0\t1\tA\t1",
		"nan\tnan\tA\t",
		"1\tinf\tA\tforever",
		"-Inf\t2\tA\tbefore",
		"NaN\t3",
	}, "\n")

	results, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)
	specs, rep := Specs(results)
	assert.Equal(t, []RenderSpec{{Start: 0, End: 1, Speaker: "A", Text: "1"}}, specs)
	require.Len(t, rep.Skipped, 4)
	for i, s := range rep.Skipped {
		assert.Equal(t, i+3, s.Line)
		assert.ErrorIs(t, s.Err, ErrMalformedLine)
	}
}

func TestReadTableWithoutHeader(t *testing.T) {
	results, err := ReadTable(strings.NewReader("1\t2\tA\thi\r\n"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, RenderSpec{Start: 1, End: 2, Speaker: "A", Text: "hi"}, results[0].Spec)
}

func TestTableRoundTrip(t *testing.T) {
	specs := []RenderSpec{
		{Start: 0.25, End: 1.75, Speaker: "A", Text: "one"},
		{Start: 1.75, End: 3, Speaker: "B", Text: "two"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, specs))
	results, err := ReadTable(&buf)
	require.NoError(t, err)
	got, rep := Specs(results)
	assert.Empty(t, rep.Skipped)
	assert.Equal(t, specs, got)
}

func TestFromSentences(t *testing.T) {
	sents := []Sentence{
		{Start: 0, End: 1, Speaker: "A", Text: "hello"},
		{Start: 1, End: 2, Speaker: "B", Text: "bye"},
	}
	got := FromSentences(sents, []string{"안녕"})
	assert.Equal(t, "안녕", got[0].Text)
	assert.Equal(t, "bye", got[1].Text)
	assert.Equal(t, "B", got[1].Speaker)
}
