package b

import "A"

type Base interface{ sealed() }

type X struct{ tag a.Tag }

func (X) sealed() {}

type Y struct{}

func (*Y) sealed() {}

type Other struct{}
