package kotoba

import "testing"

func TestImportModelRejectsMalformedJSON(t *testing.T) {
	c := New(1000, 0)
	if err := c.ImportModel([]byte("not json")); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestImportModelRejectsUnknownVersion(t *testing.T) {
	c := New(1000, 0)
	err := c.ImportModel([]byte(`{"version":2,"K":4,"vocab":[],"df":[],"N":0,"idf":[],"projection":[],"singular_weights":[],"documents":[]}`))
	if err == nil {
		t.Fatal("expected an error for an unknown schema version")
	}
}

func TestExportUntrainedModelHasEmptyProjection(t *testing.T) {
	c := New(1000, 0)
	if err := c.AddDocument("唯一の文書です", 8); err != nil {
		t.Fatal(err)
	}
	data, err := c.ExportModel()
	if err != nil {
		t.Fatal(err)
	}

	fresh := New(1000, 0)
	if err := fresh.ImportModel(data); err != nil {
		t.Fatal(err)
	}
	if fresh.live.Trained {
		t.Error("expected an untrained export to import as untrained")
	}
}

func TestSetDictionaryRejectsMalformedJSON(t *testing.T) {
	c := New(1000, 0)
	if err := c.SetDictionary([]byte("{not valid")); err == nil {
		t.Error("expected an error for malformed dictionary JSON")
	}
}
