package domain

// State names the navigation state a session is in.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateTab            State = "authenticated.tab"
	StateCommunityTopic State = "authenticated.community.topic"
)

// View is the navigation position of a session. The zero value is the
// anonymous state.
type View struct {
	Authenticated bool  `json:"authenticated"`
	Tab           Tab   `json:"tab,omitempty"`
	Topic         Topic `json:"topic,omitempty"`
}

// State reports which navigation state v represents.
func (v View) State() State {
	switch {
	case !v.Authenticated:
		return StateAnonymous
	case v.Topic != "":
		return StateCommunityTopic
	default:
		return StateTab
	}
}

// Landing is the view entered after a successful login.
func Landing() View {
	return View{Authenticated: true, Tab: TabChat}
}

// SelectTab moves any authenticated view to the given tab.
func (v View) SelectTab(t Tab) (View, error) {
	if !v.Authenticated {
		return v, ErrUnauthenticated
	}
	if _, err := ParseTab(string(t)); err != nil {
		return v, err
	}
	return View{Authenticated: true, Tab: t}, nil
}

// OpenTopic drills from the community overview into a topic.
func (v View) OpenTopic(t Topic) (View, error) {
	if !v.Authenticated {
		return v, ErrUnauthenticated
	}
	if !t.IsKnown() {
		return v, ErrUnknownTopic
	}
	if v.Tab != TabCommunity || v.Topic != "" {
		return v, ErrInvalidTransition
	}
	return View{Authenticated: true, Tab: TabCommunity, Topic: t}, nil
}

// Back returns from a topic to the community overview.
func (v View) Back() (View, error) {
	if !v.Authenticated {
		return v, ErrUnauthenticated
	}
	if v.State() != StateCommunityTopic {
		return v, ErrInvalidTransition
	}
	return View{Authenticated: true, Tab: TabCommunity}, nil
}

// Logout always lands on the anonymous view.
func (v View) Logout() (View, error) {
	if !v.Authenticated {
		return v, ErrUnauthenticated
	}
	return View{}, nil
}
