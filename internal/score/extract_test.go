package score

import "testing"

func TestExtract_NoFencedBlock(t *testing.T) {
	ex := Extract("no fenced block here")
	if !ex.Failed {
		t.Fatalf("expected Failed")
	}
	if len(ex.Scores) != 0 {
		t.Fatalf("expected empty scores, got %d", len(ex.Scores))
	}
}

func TestExtract_ValidThreeAxes(t *testing.T) {
	raw := "お疲れさまでした！今回の練習を振り返ります。\n\n" +
		"```json\n" +
		`{"scores": [` +
		`{"axis": "明瞭さ", "score": 8, "comment": "要点が整理されていました"},` +
		`{"axis": "共感", "score": 6, "comment": "相手の気持ちへの言及が少なめ"},` +
		`{"axis": "傾聴", "score": 7, "comment": "質問で話を引き出せています"}` +
		"]}\n" +
		"```\n\n" +
		"次回も頑張りましょう。"

	ex := Extract(raw)
	if ex.Failed {
		t.Fatalf("unexpected failure: %v", ex.Err)
	}
	if len(ex.Scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(ex.Scores))
	}
	want := []AxisScore{
		{Axis: "明瞭さ", Score: 8, Comment: "要点が整理されていました"},
		{Axis: "共感", Score: 6, Comment: "相手の気持ちへの言及が少なめ"},
		{Axis: "傾聴", Score: 7, Comment: "質問で話を引き出せています"},
	}
	for i, w := range want {
		if ex.Scores[i] != w {
			t.Fatalf("score %d = %+v, want %+v", i, ex.Scores[i], w)
		}
	}
}

func TestExtract_FirstBlockOnly(t *testing.T) {
	raw := "```json\n{\"scores\": [{\"axis\": \"a\", \"score\": 5, \"comment\": \"x\"}]}\n```\n" +
		"```json\n{\"scores\": [{\"axis\": \"b\", \"score\": 9, \"comment\": \"y\"}]}\n```"
	ex := Extract(raw)
	if ex.Failed || len(ex.Scores) != 1 || ex.Scores[0].Axis != "a" {
		t.Fatalf("expected only the first block to be parsed: %+v", ex)
	}
}

func TestExtract_MalformedJSON(t *testing.T) {
	ex := Extract("```json\n{not json}\n```")
	if !ex.Failed || len(ex.Scores) != 0 {
		t.Fatalf("expected failed empty extraction, got %+v", ex)
	}
}

func TestExtract_UnterminatedBlock(t *testing.T) {
	ex := Extract("```json\n{\"scores\": []}")
	if !ex.Failed {
		t.Fatalf("expected failure on unterminated block")
	}
}

func TestAverage(t *testing.T) {
	if got := Average(nil); got != 0.0 {
		t.Fatalf("Average(nil) = %v, want 0.0", got)
	}
	scores := []AxisScore{{Score: 8}, {Score: 6}, {Score: 4}}
	if got := Average(scores); got != 6.0 {
		t.Fatalf("Average = %v, want 6.0", got)
	}
}
