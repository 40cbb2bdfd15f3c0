package shapes

type Shape interface{ shape() }

type Polygon interface {
	Shape
	Sides() int
}

type Circle struct{ r int }

func (Circle) shape() {}
