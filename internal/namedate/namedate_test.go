package namedate

import "testing"

func TestFromFileName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"IMG_20190128_112233.jpg", "2019.01.28", true},
		{"20190128.jpg", "2019.01.28", true},
		{"VID-20200229-WA0001.mp4", "2020.02.29", true}, // leap day
		{"photo-2019-01-28.png", "2019.01.28", true},
		{"2019-12-31 party.jpg", "2019.12.31", true},

		// invalid dates that match the shape
		{"IMG_20191340_112233.jpg", "", false}, // month 13
		{"IMG_20190230_112233.jpg", "", false}, // Feb 30
		{"VID-20210229-WA0001.mp4", "", false}, // Feb 29 in non-leap year
		{"IMG_18500101.jpg", "", false},        // implausible year

		// digit runs that are not dates
		{"P1050334.jpg", "", false},
		{"DSC00123456.jpg", "", false}, // inner 8 digits lack a boundary
		{"holiday.jpg", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromFileName(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FromFileName(%q) = (%q, %v), want (%q, %v)",
					tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
