package admin

// DetailView 只读详情
type DetailView[P any] struct {
	Entity P
	nav    Navigator
}

func NewDetailView[P any](e P, nav Navigator) *DetailView[P] {
	return &DetailView[P]{Entity: e, nav: nav}
}

func (v *DetailView[P]) PreviousState() { v.nav.Back() }
