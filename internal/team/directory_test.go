package team

import "testing"

func TestResolveKeyCanonical(t *testing.T) {
	d := Default()
	if got := d.ResolveKey("마케팅"); got != "마케팅" {
		t.Fatalf("expected canonical key, got %q", got)
	}
}

func TestResolveKeyAlias(t *testing.T) {
	d := Default()
	if got := d.ResolveKey("mk"); got != "마케팅" {
		t.Fatalf("expected alias to resolve, got %q", got)
	}
	if got := d.ResolveKey("컨설"); got != "에이전트컨설팅" {
		t.Fatalf("expected korean alias to resolve, got %q", got)
	}
}

func TestResolveKeyNoFuzzyMatch(t *testing.T) {
	d := Default()
	if got := d.ResolveKey("마케팅팀"); got != "" {
		t.Fatalf("display name must not resolve, got %q", got)
	}
	if got := d.ResolveKey("MK"); got != "" {
		t.Fatalf("alias matching is case-sensitive, got %q", got)
	}
}

func TestResolveByChannelNameExact(t *testing.T) {
	d := Default()
	if got := d.ResolveByChannelName("ct"); got != "콘텐츠" {
		t.Fatalf("expected exact channel match, got %q", got)
	}
}

func TestResolveByChannelNamePrefix(t *testing.T) {
	d := Default()
	if got := d.ResolveByChannelName("mk-campaign"); got != "마케팅" {
		t.Fatalf("expected dash prefix match, got %q", got)
	}
	if got := d.ResolveByChannelName("dev_backend"); got != "개발" {
		t.Fatalf("expected underscore prefix match, got %q", got)
	}
	if got := d.ResolveByChannelName("development-only"); got != "개발" {
		t.Fatalf("expected long prefix match, got %q", got)
	}
}

func TestResolveByChannelNameMiss(t *testing.T) {
	d := Default()
	if got := d.ResolveByChannelName("random-channel"); got != "" {
		t.Fatalf("expected no match, got %q", got)
	}
	if got := d.ResolveByChannelName("ctx-general"); got != "" {
		t.Fatalf("prefix must stop at - or _ boundary, got %q", got)
	}
}

func TestResolveByChannelNameCaseInsensitive(t *testing.T) {
	d := Default()
	if got := d.ResolveByChannelName("MK-Campaign"); got != "마케팅" {
		t.Fatalf("channel names are lowercased before matching, got %q", got)
	}
}

func TestLabel(t *testing.T) {
	d := Default()
	if got := d.Label("마케팅"); got != "📢 마케팅팀" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := d.Label(""); got != RootLabel {
		t.Fatalf("empty key should map to root label, got %q", got)
	}
}
