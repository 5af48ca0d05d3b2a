package rendering

import "testing"

func TestBindingForVersion(t *testing.T) {
	cases := []struct {
		major, minor int
		want         string
	}{
		{2, 1, "2.1"},
		{3, 0, "2.1"},
		{3, 1, "2.1"},
		{3, 2, "3.2-core"},
		{3, 3, "3.3-core"},
		{4, 0, "3.3-core"},
		{4, 1, "4.1-core"},
		{4, 6, "4.1-core"},
	}
	for _, c := range cases {
		if got := New(c.major, c.minor).Binding(); got != c.want {
			t.Errorf("%d.%d: binding %s, want %s", c.major, c.minor, got, c.want)
		}
	}
}

func TestBindingNeverExceedsContext(t *testing.T) {
	versions := map[string]int{"2.1": 21, "3.2-core": 32, "3.3-core": 33, "4.1-core": 41}
	for major := 2; major <= 4; major++ {
		for minor := 0; minor <= 6; minor++ {
			b := bindingFor(major, minor)
			if versions[b.name] > major*10+minor && b != binding21 {
				t.Errorf("%d.%d got binding %s", major, minor, b.name)
			}
		}
	}
}
