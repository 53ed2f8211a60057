package source

// Modifier is a leading declaration keyword stripped from a line at construction time.
type Modifier string

const (
	ModifierPublic       Modifier = "public"
	ModifierProtected    Modifier = "protected"
	ModifierPrivate      Modifier = "private"
	ModifierAbstract     Modifier = "abstract"
	ModifierStatic       Modifier = "static"
	ModifierFinal        Modifier = "final"
	ModifierTransient    Modifier = "transient"
	ModifierVolatile     Modifier = "volatile"
	ModifierSynchronized Modifier = "synchronized"
	ModifierNative       Modifier = "native"
	ModifierStrictfp     Modifier = "strictfp"
	ModifierDefault      Modifier = "default"
	ModifierSealed       Modifier = "sealed"
	ModifierNonSealed    Modifier = "non-sealed"
)

var modifiers = map[string]Modifier{
	string(ModifierPublic):       ModifierPublic,
	string(ModifierProtected):    ModifierProtected,
	string(ModifierPrivate):      ModifierPrivate,
	string(ModifierAbstract):     ModifierAbstract,
	string(ModifierStatic):       ModifierStatic,
	string(ModifierFinal):        ModifierFinal,
	string(ModifierTransient):    ModifierTransient,
	string(ModifierVolatile):     ModifierVolatile,
	string(ModifierSynchronized): ModifierSynchronized,
	string(ModifierNative):       ModifierNative,
	string(ModifierStrictfp):     ModifierStrictfp,
	string(ModifierDefault):      ModifierDefault,
	string(ModifierSealed):       ModifierSealed,
	string(ModifierNonSealed):    ModifierNonSealed,
}

// LookupModifier returns the modifier named by s.
func LookupModifier(s string) (Modifier, bool) {
	m, ok := modifiers[s]
	return m, ok
}

// Modifiers is the ordered list of modifiers recorded for a line.
type Modifiers []Modifier

func (m Modifiers) Has(mod Modifier) bool {
	for _, x := range m {
		if x == mod {
			return true
		}
	}
	return false
}

func (m Modifiers) IsPrivate() bool { return m.Has(ModifierPrivate) }
func (m Modifiers) IsStatic() bool  { return m.Has(ModifierStatic) }
func (m Modifiers) IsFinal() bool   { return m.Has(ModifierFinal) }
