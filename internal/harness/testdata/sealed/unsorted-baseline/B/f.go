package b

type Base interface{ sealed() }

type X struct{}

func (X) sealed() {}

type Y struct{}

func (Y) sealed() {}
