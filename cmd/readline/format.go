package main

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/grafana/iterfile/pkg/charcount"
)

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

func methodNames() []string {
	return lo.Map(charcount.Methods, func(m charcount.Method, _ int) string { return string(m) })
}

func unitNames() []string {
	return lo.Map(charcount.Units, func(u charcount.Unit, _ int) string { return string(u) })
}
