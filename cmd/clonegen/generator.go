package main

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
)

// Generator renders Clone() methods from analyzed TypeInfo values.
type Generator struct {
	pkgName         string
	pointerReceiver bool
	skipFields      map[string]bool
}

// NewGenerator returns a Generator for pkgName. skipFields names fields
// that get a shallow (`=`) copy regardless of their analyzed kind.
func NewGenerator(pkgName string, pointerReceiver bool, skipFields []string) *Generator {
	skip := make(map[string]bool, len(skipFields))
	for _, f := range skipFields {
		skip[f] = true
	}
	return &Generator{pkgName: pkgName, pointerReceiver: pointerReceiver, skipFields: skip}
}

// Generate renders one Clone() method per TypeInfo and gofmt's the
// result.
func (g *Generator) Generate(types []*TypeInfo) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by clonegen. DO NOT EDIT.\n\npackage %s\n\n", g.pkgName)

	names := make([]string, 0, len(types))
	byName := make(map[string]*TypeInfo, len(types))
	for _, t := range types {
		names = append(names, t.Name)
		byName[t.Name] = t
	}
	sort.Strings(names)

	for _, name := range names {
		g.writeClone(&buf, byName[name])
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("gofmt: %w", err)
	}
	return formatted, nil
}

func (g *Generator) writeClone(buf *bytes.Buffer, t *TypeInfo) {
	recv := "src " + t.Name
	copyExpr := "src"
	if g.pointerReceiver {
		recv = "src *" + t.Name
		copyExpr = "*src"
	}
	fmt.Fprintf(buf, "func (%s) Clone() %s {\n", recv, t.Name)
	fmt.Fprintf(buf, "\tdst := %s\n", copyExpr)

	for _, f := range t.Fields {
		if g.skipFields[f.Name] {
			continue
		}
		g.writeField(buf, f)
	}

	fmt.Fprintf(buf, "\treturn dst\n}\n\n")
}

func (g *Generator) writeField(buf *bytes.Buffer, f *FieldInfo) {
	srcField, dstField := "src."+f.Name, "dst."+f.Name

	switch f.Kind {
	case KindPrimitive, KindString, KindTime:
		// Already copied by the struct copy above.
		return

	case KindSlice:
		fmt.Fprintf(buf, "\tif %s != nil {\n", srcField)
		fmt.Fprintf(buf, "\t\t%s = make(%s, len(%s))\n", dstField, "[]"+f.ElemType, srcField)
		if f.ElemKind == KindStruct && f.HasClone {
			fmt.Fprintf(buf, "\t\tfor i, v := range %s {\n\t\t\t%s[i] = v.Clone()\n\t\t}\n", srcField, dstField)
		} else {
			fmt.Fprintf(buf, "\t\tcopy(%s, %s)\n", dstField, srcField)
		}
		fmt.Fprintf(buf, "\t}\n")

	case KindMap:
		fmt.Fprintf(buf, "\tif %s != nil {\n", srcField)
		fmt.Fprintf(buf, "\t\t%s = make(%s, len(%s))\n", dstField, "map["+f.KeyType+"]"+f.ElemType, srcField)
		if f.ElemKind == KindStruct && f.HasClone {
			fmt.Fprintf(buf, "\t\tfor k, v := range %s {\n\t\t\t%s[k] = v.Clone()\n\t\t}\n", srcField, dstField)
		} else {
			fmt.Fprintf(buf, "\t\tfor k, v := range %s {\n\t\t\t%s[k] = v\n\t\t}\n", srcField, dstField)
		}
		fmt.Fprintf(buf, "\t}\n")

	case KindPointer:
		if f.ElemKind == KindStruct && f.HasClone {
			fmt.Fprintf(buf, "\tif %s != nil {\n\t\tcloned := %s.Clone()\n\t\t%s = &cloned\n\t}\n", srcField, srcField, dstField)
		} else if f.ElemKind == KindStruct {
			fmt.Fprintf(buf, "\tif %s != nil {\n\t\tcloned := *%s\n\t\t%s = &cloned\n\t}\n", srcField, srcField, dstField)
		}
		// else: pointer to primitive, shallow copy (shared) is left as-is.

	case KindArray:
		if f.ElemKind == KindStruct && f.HasClone {
			fmt.Fprintf(buf, "\tfor i, v := range %s {\n\t\t%s[i] = v.Clone()\n\t}\n", srcField, dstField)
		}
		// else: arrays are copied by value in the struct copy above.

	case KindStruct:
		if f.HasClone {
			fmt.Fprintf(buf, "\t%s = %s.Clone()\n", dstField, srcField)
		}
		// else: already struct-copied by value above.

	case KindInterface, KindChan, KindFunc, KindUnknown:
		if f.Warning != "" {
			fmt.Fprintf(buf, "\t// %s: %s\n", f.Name, f.Warning)
		}
	}
}
