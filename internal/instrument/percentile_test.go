package instrument

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParsePercentile(t *testing.T) {
	tests := []struct {
		in      string
		want    Percentile
		wantErr bool
	}{
		{in: "50", want: Percentile{Min: 50, Max: 50}},
		{in: " 84 ", want: Percentile{Min: 84, Max: 84}},
		{in: "95-97", want: Percentile{Min: 95, Max: 97}},
		{in: ">99", want: Percentile{Min: 99, Max: 100}},
		{in: "<1", want: Percentile{Min: 0, Max: 1}},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "97-95", wantErr: true},
		{in: "101", wantErr: true},
		{in: ">x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePercentile(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePercentile(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePercentile(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercentileString(t *testing.T) {
	tests := []struct {
		p    Percentile
		want string
	}{
		{Percentile{Min: 50, Max: 50}, "50"},
		{Percentile{Min: 95, Max: 97}, "95-97"},
		{Percentile{Min: 99, Max: 100}, ">99"},
		{Percentile{Min: 0, Max: 1}, "<1"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Percentile%+v.String() = %q, want %q", tt.p, got, tt.want)
		}
		back, err := ParsePercentile(tt.p.String())
		if err != nil || back != tt.p {
			t.Errorf("ParsePercentile(%q) = %+v, %v; want %+v", tt.p.String(), back, err, tt.p)
		}
	}
}

func TestPercentileYAML(t *testing.T) {
	var row NormRow
	src := "domain: SOC\nraw_min: 10\nraw_max: 15\nt_score: 45\npercentile: \"95-97\"\nclassification: TIPICO\n"
	if err := yaml.Unmarshal([]byte(src), &row); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if row.Percentile == nil || *row.Percentile != (Percentile{Min: 95, Max: 97}) {
		t.Errorf("Percentile = %v, want 95-97", row.Percentile)
	}
	if row.TScore == nil || *row.TScore != 45 {
		t.Errorf("TScore = %v, want 45", row.TScore)
	}

	out, err := yaml.Marshal(row)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	var again NormRow
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-decoding %q: %v", out, err)
	}
	if *again.Percentile != *row.Percentile {
		t.Errorf("round trip percentile = %v, want %v", again.Percentile, row.Percentile)
	}

	if err := yaml.Unmarshal([]byte("percentile: [1, 2]\n"), &row); err == nil {
		t.Error("expected an error for a sequence percentile")
	}
}
