package b

type Open interface{ Do() }

type Impl struct{}

func (Impl) Do() {}
