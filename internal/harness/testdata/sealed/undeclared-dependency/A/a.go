package a

type Tag string
