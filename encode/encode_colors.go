package encode

import (
	"strings"

	"github.com/fatih/color"
	"github.com/signadot/ctree/tree"
)

type Colorable struct {
	Type tree.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
	TestColor
	InsertColor
	DeleteColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range []tree.Type{tree.ListType, tree.MappingType} {
		colors.Map[Colorable{Type: t, Attr: SepColor}] = color.RGB(255, 0, 196).SprintfFunc()
	}
	able := Colorable{Type: tree.MappingType, Attr: FieldColor}
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Attr = TestColor
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()

	able.Attr = ValueColor
	able.Type = tree.IntType
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Type = tree.NullType
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()
	able.Type = tree.BoolType
	colors.Map[able] = color.CyanString
	able.Type = tree.StringType
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Type = tree.PathType
	colors.Map[able] = color.RGB(88, 158, 86).SprintfFunc()
	able.Type = tree.EnumType
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()
	able.Type = tree.ReferenceType
	colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
	able.Type = tree.InterpolationType
	colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()

	able.Type = tree.StringType
	able.Attr = InsertColor
	colors.Map[able] = color.GreenString
	able.Attr = DeleteColor
	colors.Map[able] = color.RedString
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t tree.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t tree.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
