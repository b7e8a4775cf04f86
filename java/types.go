package java

// TypeSystem answers subtyping questions using the classes of an index.
type TypeSystem struct {
	index ClassIndex
}

func NewTypeSystem(index ClassIndex) *TypeSystem {
	return &TypeSystem{index: index}
}

var boxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

var unboxes = func() map[string]string {
	m := make(map[string]string, len(boxes))
	for prim, box := range boxes {
		m[box] = prim
	}
	return m
}()

// widening lists the primitive types each primitive converts to without a
// cast.
var widening = map[string][]string{
	"byte":  {"short", "int", "long", "float", "double"},
	"short": {"int", "long", "float", "double"},
	"char":  {"int", "long", "float", "double"},
	"int":   {"long", "float", "double"},
	"long":  {"float", "double"},
	"float": {"double"},
}

// Box returns the wrapper class of a primitive type, or t itself.
func Box(t TypeModel) TypeModel {
	if !t.IsPrimitive() {
		return t
	}
	return TypeModel{Name: boxes[t.Name]}
}

// Unbox returns the primitive type of a wrapper class.
func Unbox(t TypeModel) (TypeModel, bool) {
	if t.ArrayDepth > 0 {
		return t, false
	}
	prim, ok := unboxes[t.Name]
	if !ok {
		return t, false
	}
	return TypeModel{Name: prim}, true
}

// IsSameType compares erased types.
func IsSameType(a, b TypeModel) bool {
	return a.Name == b.Name && a.ArrayDepth == b.ArrayDepth
}

// IsBoxingOf reports whether a and b are a primitive and its wrapper, in
// either order.
func IsBoxingOf(a, b TypeModel) bool {
	if a.IsPrimitive() {
		return IsSameType(Box(a), b)
	}
	if b.IsPrimitive() {
		return IsSameType(a, Box(b))
	}
	return false
}

// IsAssignable reports whether a value of type from can be assigned to a
// variable of type to, allowing widening, boxing and unboxing.
func (ts *TypeSystem) IsAssignable(from, to TypeModel) bool {
	if from.IsZero() || to.IsZero() || from.IsVoid() || to.IsVoid() {
		return false
	}
	if IsSameType(from, to) {
		return true
	}
	if from.Name == "null" && from.ArrayDepth == 0 {
		return to.IsReference()
	}
	if to.IsTypeVariable {
		return from.ArrayDepth >= to.ArrayDepth
	}

	switch {
	case from.IsPrimitive() && to.IsPrimitive():
		for _, w := range widening[from.Name] {
			if w == to.Name {
				return true
			}
		}
		return false
	case from.IsPrimitive():
		return ts.IsAssignable(Box(from), to)
	case to.IsPrimitive():
		prim, ok := Unbox(from)
		return ok && ts.IsAssignable(prim, to)
	}

	if from.ArrayDepth > 0 {
		if to.ArrayDepth == 0 {
			switch to.Name {
			case "java.lang.Object", "java.lang.Cloneable", "java.io.Serializable":
				return true
			}
			return false
		}
		fe, te := from.Element(), to.Element()
		if fe.IsPrimitive() || te.IsPrimitive() {
			return IsSameType(fe, te)
		}
		return ts.IsAssignable(fe, te)
	}
	if to.ArrayDepth > 0 {
		return false
	}
	if from.IsTypeVariable {
		return to.Name == "java.lang.Object"
	}
	return ts.IsSubclass(from.Name, to.Name)
}

// IsSubclass reports whether the class named sub is super or inherits from
// it through superclasses or interfaces.
func (ts *TypeSystem) IsSubclass(sub, super string) bool {
	if sub == super || super == "java.lang.Object" {
		return true
	}
	for _, name := range ts.Supertypes(sub) {
		if name == super {
			return true
		}
	}
	return false
}

// Supertypes lists the known supertypes of the named class, nearest first.
// Classes missing from the index end the walk along their branch.
func (ts *TypeSystem) Supertypes(name string) []string {
	if ts.index == nil {
		return nil
	}
	seen := map[string]bool{name: true}
	queue := []string{name}
	var out []string
	for len(queue) > 0 {
		c := ts.index.FindClass(queue[0])
		queue = queue[1:]
		if c == nil {
			continue
		}
		parents := append([]string{}, c.Interfaces...)
		if c.SuperClass != "" {
			parents = append([]string{c.SuperClass}, parents...)
		}
		for _, p := range parents {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
			queue = append(queue, p)
		}
	}
	return out
}

// Substitute replaces type variables in t with their bindings. A variable
// without a binding is erased to its bound at the top level; inside type
// arguments it turns the enclosing type raw.
func Substitute(t TypeModel, bindings map[string]TypeModel, params []TypeParameterModel) TypeModel {
	if t.IsTypeVariable {
		if b, ok := bindings[t.Name]; ok {
			b.ArrayDepth += t.ArrayDepth
			return b
		}
		erased := TypeModel{Name: "java.lang.Object"}
		for _, p := range params {
			if p.Name == t.Name && len(p.Bounds) > 0 && !p.Bounds[0].IsTypeVariable {
				erased = TypeModel{Name: p.Bounds[0].Name}
				break
			}
		}
		erased.ArrayDepth = t.ArrayDepth
		return erased
	}
	if len(t.TypeArguments) == 0 {
		return t
	}
	out := t
	out.TypeArguments = make([]TypeArgumentModel, 0, len(t.TypeArguments))
	for _, arg := range t.TypeArguments {
		sub, ok := substituteArgument(arg, bindings)
		if !ok {
			out.TypeArguments = nil
			return out
		}
		out.TypeArguments = append(out.TypeArguments, sub)
	}
	return out
}

func substituteArgument(arg TypeArgumentModel, bindings map[string]TypeModel) (TypeArgumentModel, bool) {
	inner := arg.Type
	if arg.IsWildcard {
		inner = arg.Bound
	}
	if inner == nil {
		return arg, true
	}
	if inner.IsTypeVariable {
		if _, ok := bindings[inner.Name]; !ok {
			return arg, false
		}
	}
	sub := Substitute(*inner, bindings, nil)
	if len(inner.TypeArguments) > 0 && len(sub.TypeArguments) == 0 {
		return arg, false
	}
	if arg.IsWildcard {
		arg.Bound = &sub
	} else {
		arg.Type = &sub
	}
	return arg, true
}

// Bindings pairs the type parameters of class with the type arguments of
// t. Wildcards and missing arguments bind nothing.
func Bindings(class *ClassModel, t TypeModel) map[string]TypeModel {
	bindings := map[string]TypeModel{}
	if class == nil || t.ArrayDepth > 0 || len(t.TypeArguments) != len(class.TypeParameters) {
		return bindings
	}
	for i, p := range class.TypeParameters {
		arg := t.TypeArguments[i]
		if arg.IsWildcard || arg.Type == nil {
			continue
		}
		bindings[p.Name] = *arg.Type
	}
	return bindings
}
