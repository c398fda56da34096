package web

import (
	"net/url"
)

const (
	burgerParam = "burger"
	menuParam   = "menu"
	openValue   = "open"
)

// HeaderState is the header's local toggle state. It lives only in the
// current page's query string and is dropped by any navigation.
type HeaderState struct {
	BurgerOpen   bool
	UserMenuOpen bool
}

func HeaderStateFrom(q url.Values) HeaderState {
	return HeaderState{
		BurgerOpen:   q.Get(burgerParam) == openValue,
		UserMenuOpen: q.Get(menuParam) == openValue,
	}
}

func (s HeaderState) ToggleBurger() HeaderState {
	s.BurgerOpen = !s.BurgerOpen
	return s
}

func (s HeaderState) OpenUserMenu() HeaderState {
	s.UserMenuOpen = true
	return s
}

func (s HeaderState) CloseUserMenu() HeaderState {
	s.UserMenuOpen = false
	return s
}

// Href is u with its state parameters replaced by s. Other query
// parameters are kept.
func (s HeaderState) Href(u *url.URL) string {
	q := url.Values{}
	for k, v := range u.Query() {
		q[k] = append([]string(nil), v...)
	}
	setFlag(q, burgerParam, s.BurgerOpen)
	setFlag(q, menuParam, s.UserMenuOpen)

	out := *u
	out.Scheme, out.Opaque, out.User, out.Host, out.Fragment, out.RawFragment = "", "", nil, "", "", ""
	out.RawQuery = q.Encode()
	if out.Path == "" {
		out.Path, out.RawPath = "/", ""
	}
	return out.String()
}

func setFlag(q url.Values, key string, on bool) {
	if on {
		q.Set(key, openValue)
	} else {
		q.Del(key)
	}
}
