package fetcher

import "testing"

func TestUnmarshalTolerant_EmptyBodyIsNoop(t *testing.T) {
	var dest []int
	if err := unmarshalTolerant(nil, &dest); err != nil {
		t.Fatalf("unmarshalTolerant(nil) error = %v", err)
	}
	if dest != nil {
		t.Errorf("dest = %v, want nil", dest)
	}
}

func TestUnmarshalTolerant_ValidArray(t *testing.T) {
	var dest []int
	if err := unmarshalTolerant([]byte(`[1,2,3]`), &dest); err != nil {
		t.Fatalf("unmarshalTolerant() error = %v", err)
	}
	if len(dest) != 3 {
		t.Errorf("dest = %v, want 3 elements", dest)
	}
}

func TestUnmarshalTolerant_ErrorEnvelopeIntoSliceIsTreatedAsEmpty(t *testing.T) {
	var dest []int
	err := unmarshalTolerant([]byte(`{"Error Message": "Invalid symbol"}`), &dest)
	if err != nil {
		t.Fatalf("unmarshalTolerant() error = %v, want nil (object-into-slice is tolerated)", err)
	}
	if len(dest) != 0 {
		t.Errorf("dest = %v, want empty", dest)
	}
}

func TestUnmarshalTolerant_MalformedIntoStructIsAnError(t *testing.T) {
	var dest struct {
		Symbol string `json:"symbol"`
	}
	err := unmarshalTolerant([]byte(`not json`), &dest)
	if err == nil {
		t.Fatal("expected a decode error for malformed JSON into a non-slice destination")
	}
}

func TestIsSlicePointer(t *testing.T) {
	var slice []int
	var notSlice int
	var sliceNotPointer = []int{}

	if !isSlicePointer(&slice) {
		t.Error("isSlicePointer(*[]int) = false, want true")
	}
	if isSlicePointer(&notSlice) {
		t.Error("isSlicePointer(*int) = true, want false")
	}
	if isSlicePointer(sliceNotPointer) {
		t.Error("isSlicePointer([]int) = true, want false")
	}
}
