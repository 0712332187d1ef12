package stress

import "testing"

func TestLocate(t *testing.T) {
	cases := []struct {
		word string
		idx  int
		ok   bool
	}{
		{"зАмок", 1, true},
		{"замОк", 3, true},
		{"Арбуз", 0, true},
		{"тортЫ", 4, true},
		{"свЁкла", 2, true},
		{"замок", -1, false},
		{"", -1, false},
		// upper-case consonants are not stress marks
		{"ЗамОк", 3, true},
		{"ЗМК", -1, false},
		// first upper-case vowel wins
		{"АрбУз", 0, true},
		// latin lookalikes are not in the alphabet
		{"зAмок", -1, false},
	}
	for _, c := range cases {
		idx, ok := Locate(c.word)
		if idx != c.idx || ok != c.ok {
			t.Errorf("Locate(%q) = (%d, %v), want (%d, %v)", c.word, idx, ok, c.idx, c.ok)
		}
	}
}

func TestLettersLowercasesAndFlagsVowels(t *testing.T) {
	ls := Letters("зАмок")
	if len(ls) != 5 {
		t.Fatalf("expected 5 letters, got %d", len(ls))
	}
	want := []Letter{
		{0, "з", false},
		{1, "а", true},
		{2, "м", false},
		{3, "о", true},
		{4, "к", false},
	}
	for i, w := range want {
		if ls[i] != w {
			t.Errorf("letter %d = %+v, want %+v", i, ls[i], w)
		}
	}
}

func TestStressed(t *testing.T) {
	if got := Stressed("зАмок", 1); got != "зАмок" {
		t.Errorf("Stressed = %q", got)
	}
	if got := Stressed("ЗАМОК", 3); got != "замОк" {
		t.Errorf("Stressed = %q", got)
	}
	if got := Stressed("зАмок", 42); got != "замок" {
		t.Errorf("Stressed out of range = %q", got)
	}
	if got := Lower("зАмок"); got != "замок" {
		t.Errorf("Lower = %q", got)
	}
}
