package normalizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		unchanged bool
	}{
		{
			name:  "sequence preserved and version lifted",
			input: "07.Sales Data v2.3.sql",
			want:  "07. Sales_Data V2.3.sql",
		},
		{
			name:  "special characters stripped",
			input: "1. Order#Items! v1.5.sql",
			want:  "1. OrderItems V1.5.sql",
		},
		{
			name:  "missing version defaults to 1.0",
			input: "3.Customer_Report.sql",
			want:  "3. Customer_Report V1.0.sql",
		},
		{
			name:  "hyphens become underscores",
			input: "4.add-user-index V3.0.sql",
			want:  "4. add_user_index V3.0.sql",
		},
		{
			name:  "whitespace runs collapse to one underscore",
			input: "5. drop   old\ttables v1.1.sql",
			want:  "5. drop_old_tables V1.1.sql",
		},
		{
			name:  "first version token wins",
			input: "6. migrate v2.0 to v3.0.sql",
			want:  "6. migrate_to_v30 V2.0.sql",
		},
		{
			name:  "no sequence leaves leading gap",
			input: "Report v1.2.sql",
			want:  " Report V1.2.sql",
		},
		{
			name:  "empty description passes through",
			input: "8.!!!.sql",
			want:  "8.  V1.0.sql",
		},
		{
			name:  "uppercase version prefix is stripped",
			input: "9.Cleanup V10.20.sql",
			want:  "9. Cleanup V10.20.sql",
		},
		{
			name:  "version searched in full filename, removed from remainder",
			input: "12.5 seed.sql",
			want:  "12. 5_seed V12.5.sql",
		},
		{
			name:  "non-ASCII letters are kept",
			input: "2. Übersicht v1.1.sql",
			want:  "2. Übersicht V1.1.sql",
		},
		{
			name:  "non-ASCII words joined by hyphen",
			input: "3.Straße-Ärger.sql",
			want:  "3. Straße_Ärger V1.0.sql",
		},
		{
			name:      "non-ASCII canonical name is untouched",
			input:     "1. café V1.0.sql",
			want:      "1. café V1.0.sql",
			unchanged: true,
		},
		{
			name:      "canonical name is untouched",
			input:     "10. Create_Orders V1.3.sql",
			want:      "10. Create_Orders V1.3.sql",
			unchanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got.Unchanged != tt.unchanged {
				t.Errorf("Normalize(%q).Unchanged = %v, want %v", tt.input, got.Unchanged, tt.unchanged)
			}
			if got.NewName != tt.want {
				t.Errorf("Normalize(%q).NewName = %q, want %q", tt.input, got.NewName, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	p := Parse("07.Sales Data v2.3.sql")
	if p.Sequence != "07." {
		t.Errorf("Sequence = %q, want %q", p.Sequence, "07.")
	}
	if p.Description != "Sales_Data" {
		t.Errorf("Description = %q, want %q", p.Description, "Sales_Data")
	}
	if p.Version != "2.3" {
		t.Errorf("Version = %q, want %q", p.Version, "2.3")
	}
}

func TestIsCanonical(t *testing.T) {
	canonical := []string{
		"1. A V1.0.sql",
		"007. create_table_users V12.34.sql",
		"2. Übersicht_Café V1.1.sql",
	}
	for _, name := range canonical {
		if !IsCanonical(name) {
			t.Errorf("IsCanonical(%q) = false, want true", name)
		}
	}

	notCanonical := []string{
		"1.A V1.0.sql",
		"1. A v1.0.sql",
		"1. A-B V1.0.sql",
		"1. A V1.sql",
		"1. A V1.0.SQL",
		"A V1.0.sql",
	}
	for _, name := range notCanonical {
		if IsCanonical(name) {
			t.Errorf("IsCanonical(%q) = true, want false", name)
		}
	}
}

// genWord generates non-empty ASCII letter words.
func genWord() gopter.Gen {
	return gopter.CombineGens(gen.AlphaChar(), gen.AlphaString()).Map(func(vals []interface{}) string {
		return string(vals[0].(rune)) + vals[1].(string)
	})
}

// genSequence generates sequence prefixes such as "7." or "042.".
func genSequence() gopter.Gen {
	return gopter.CombineGens(gen.IntRange(0, 999), gen.Bool()).Map(func(vals []interface{}) string {
		n := vals[0].(int)
		if vals[1].(bool) {
			return fmt.Sprintf("%03d.", n)
		}
		return fmt.Sprintf("%d.", n)
	})
}

// genJoiner generates separators that sanitize into a single underscore.
func genJoiner() gopter.Gen {
	return gen.OneConstOf(" ", "-", "  ", "\t")
}

func genVersionPrefix() gopter.Gen {
	return gen.OneConstOf("", "v", "V")
}

func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("normalized output is canonical and normalizing it again is a no-op", prop.ForAll(
		func(seq string, words []string, joiner string, vprefix string, major, minor int) bool {
			raw := fmt.Sprintf("%s%s %s%d.%d.sql", seq, strings.Join(words, joiner), vprefix, major, minor)

			first := Normalize(raw)
			if !IsCanonical(first.NewName) {
				t.Logf("output %q of %q is not canonical", first.NewName, raw)
				return false
			}

			second := Normalize(first.NewName)
			if !second.Unchanged || second.NewName != first.NewName {
				t.Logf("second pass over %q changed it to %q", first.NewName, second.NewName)
				return false
			}
			return true
		},
		genSequence(),
		gen.SliceOfN(3, genWord()),
		genJoiner(),
		genVersionPrefix(),
		gen.IntRange(0, 99),
		gen.IntRange(0, 99),
	))

	properties.Property("sequence, words and version are preserved", prop.ForAll(
		func(seq string, words []string, joiner string, vprefix string, major, minor int) bool {
			raw := fmt.Sprintf("%s %s %s%d.%d.sql", seq, strings.Join(words, joiner), vprefix, major, minor)
			want := fmt.Sprintf("%s %s V%d.%d.sql", seq, strings.Join(words, "_"), major, minor)

			got := Normalize(raw).NewName
			if got != want {
				t.Logf("Normalize(%q) = %q, want %q", raw, got, want)
				return false
			}
			return true
		},
		genSequence(),
		gen.SliceOfN(2, genWord()),
		genJoiner(),
		genVersionPrefix(),
		gen.IntRange(0, 99),
		gen.IntRange(0, 99),
	))

	properties.Property("names without a version token get V1.0", prop.ForAll(
		func(seq string, words []string) bool {
			raw := seq + strings.Join(words, " ") + ".sql"
			got := Normalize(raw).NewName
			if !strings.HasSuffix(got, " V1.0.sql") {
				t.Logf("Normalize(%q) = %q, missing default version", raw, got)
				return false
			}
			return strings.HasPrefix(got, seq+" ")
		},
		genSequence(),
		gen.SliceOfN(2, genWord()),
	))

	properties.Property("canonical names pass through unchanged", prop.ForAll(
		func(seq int, words []string, major, minor int) bool {
			name := fmt.Sprintf("%d. %s V%d.%d.sql", seq, strings.Join(words, "_"), major, minor)
			res := Normalize(name)
			return res.Unchanged && res.NewName == name
		},
		gen.IntRange(0, 9999),
		gen.SliceOfN(2, genWord()),
		gen.IntRange(0, 999),
		gen.IntRange(0, 999),
	))

	properties.TestingRun(t)
}
