package shapes

type Square struct{ side int }

func (Square) shape() {}

func (Square) Sides() int { return 4 }
