package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Fprint renders n back to source text. It is used to test the round-trip
// property (parse -> print -> parse yields an equivalent tree) and to
// render diagnostics that quote a fragment of source.
func Fprint(n Node) string {
	p := &printer{}
	p.printNode(n)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) w(s string) { p.sb.WriteString(s) }

func (p *printer) nl() {
	p.sb.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.sb.WriteString("    ")
	}
}

func (p *printer) printNode(n Node) {
	switch x := n.(type) {
	case *File:
		for i, d := range x.Decls {
			if i > 0 {
				p.w("\n")
				p.nl()
			}
			p.printDecl(d)
		}
	default:
		if d, ok := n.(Decl); ok {
			p.printDecl(d)
			return
		}
		if s, ok := n.(Stmt); ok {
			p.printStmt(s)
			return
		}
		if e, ok := n.(Expr); ok {
			p.printExpr(e)
			return
		}
		panic(fmt.Sprintf("printer: unhandled node %T", n))
	}
}

func (p *printer) printDecl(d Decl) {
	switch x := d.(type) {
	case *FuncDecl:
		p.printFunc(x)
	case *StructDecl:
		p.w("struct ")
		p.w(x.Name.Name)
		p.w(" {")
		p.indent++
		for _, f := range x.Fields {
			p.nl()
			if f.Pub {
				p.w("pub ")
			}
			p.w(f.Name.Name)
			p.w(": ")
			p.printType(f.Type)
			p.w(",")
		}
		p.indent--
		if len(x.Fields) > 0 {
			p.nl()
		}
		p.w("}")
	case *ImplDecl:
		p.w("impl ")
		p.w(x.Name.Name)
		p.w(" {")
		p.indent++
		for _, c := range x.Consts {
			p.nl()
			if c.Pub {
				p.w("pub ")
			}
			p.w("const ")
			p.w(c.Name.Name)
			p.w(" = ")
			p.printExpr(c.Value)
			p.w(";")
		}
		for _, m := range x.Methods {
			p.nl()
			if m.Pub {
				p.w("pub ")
			}
			p.printFunc(m)
		}
		p.indent--
		p.nl()
		p.w("}")
	case *EnumDecl:
		p.w("enum ")
		p.w(x.Name.Name)
		p.w(" { ")
		for i, v := range x.Variants {
			if i > 0 {
				p.w(", ")
			}
			p.w(v.Name)
		}
		p.w(" }")
	case *ConstDecl:
		if x.Pub {
			p.w("pub ")
		}
		p.w("const ")
		p.w(x.Name.Name)
		p.w(" = ")
		p.printExpr(x.Value)
		p.w(";")
	case *StmtDecl:
		p.printStmt(x.Stmt)
	default:
		panic(fmt.Sprintf("printer: unhandled decl %T", d))
	}
}

func (p *printer) printFunc(x *FuncDecl) {
	p.w("fn ")
	p.w(x.Name.Name)
	p.w("(")
	if x.IsMethod {
		p.w("self")
		if len(x.Params) > 0 {
			p.w(", ")
		}
	}
	for i, param := range x.Params {
		if i > 0 {
			p.w(", ")
		}
		if param.Mut {
			p.w("mut ")
		}
		p.w(param.Name.Name)
		p.w(": ")
		p.printType(param.Type)
	}
	p.w(")")
	if x.RetType != nil {
		p.w(" -> ")
		p.printType(x.RetType)
	}
	p.w(" ")
	p.printStmt(x.Body)
}

func (p *printer) printType(t TypeExpr) {
	switch x := t.(type) {
	case *NamedType:
		p.w(x.Name)
	case *VecType:
		p.w("vec")
		if x.Elem != nil {
			p.w("<")
			p.printType(x.Elem)
			p.w(">")
		}
	default:
		panic(fmt.Sprintf("printer: unhandled type %T", t))
	}
}

func (p *printer) printStmt(s Stmt) {
	switch x := s.(type) {
	case *BlockStmt:
		p.w("{")
		p.indent++
		for _, st := range x.Stmts {
			p.nl()
			p.printStmt(st)
		}
		p.indent--
		if len(x.Stmts) > 0 {
			p.nl()
		}
		p.w("}")
	case *ExprStmt:
		p.printExpr(x.X)
		p.w(";")
	case *LetStmt:
		p.w("let ")
		if x.Mut {
			p.w("mut ")
		}
		p.w(x.Name.Name)
		if x.Type != nil {
			p.w(": ")
			p.printType(x.Type)
		}
		if x.Value != nil {
			p.w(" = ")
			p.printExpr(x.Value)
		}
		p.w(";")
	case *ConstStmt:
		p.printDecl(x.Decl)
	case *ReturnStmt:
		p.w("return")
		if x.Value != nil {
			p.w(" ")
			p.printExpr(x.Value)
		}
		p.w(";")
	case *BreakStmt:
		p.w("break;")
	case *ContinueStmt:
		p.w("continue;")
	case *IfStmt:
		p.w("if ")
		p.printExpr(x.Cond)
		p.w(" ")
		p.printStmt(x.Then)
		if x.Else != nil {
			p.w(" else ")
			p.printStmt(x.Else)
		}
	case *WhileStmt:
		p.w("while ")
		p.printExpr(x.Cond)
		p.w(" ")
		p.printStmt(x.Body)
	case *LoopStmt:
		p.w("loop ")
		p.printStmt(x.Body)
	case *ForStmt:
		p.w("for ")
		if x.Init != nil {
			p.printStmt(x.Init)
		} else {
			p.w(";")
		}
		p.w(" ")
		if x.Cond != nil {
			p.printExpr(x.Cond)
		}
		p.w("; ")
		if x.Step != nil {
			if es, ok := x.Step.(*ExprStmt); ok {
				p.printExpr(es.X)
			} else {
				p.printStmt(x.Step)
			}
		}
		p.w(" ")
		p.printStmt(x.Body)
	case *FuncDeclStmt:
		p.printFunc(x.Decl)
	case *StructDeclStmt:
		p.printDecl(x.Decl)
	case *ImplDeclStmt:
		p.printDecl(x.Decl)
	case *EnumDeclStmt:
		p.printDecl(x.Decl)
	default:
		panic(fmt.Sprintf("printer: unhandled stmt %T", s))
	}
}

func (p *printer) printExpr(e Expr) {
	switch x := e.(type) {
	case *Ident:
		p.w(x.Name)
	case *IntLit:
		p.w(strconv.FormatInt(x.Value, 10))
	case *FloatLit:
		p.w(x.Raw)
	case *StringLit:
		p.w(strconv.Quote(x.Value))
	case *BoolLit:
		if x.Value {
			p.w("true")
		} else {
			p.w("false")
		}
	case *NilLit:
		p.w("nil")
	case *GroupExpr:
		p.w("(")
		p.printExpr(x.X)
		p.w(")")
	case *UnaryExpr:
		p.w(x.Op.String())
		p.printExpr(x.X)
	case *BinaryExpr:
		p.printExpr(x.X)
		p.w(" ")
		p.w(x.Op.String())
		p.w(" ")
		p.printExpr(x.Y)
	case *AssignExpr:
		p.printExpr(x.LHS)
		p.w(" ")
		p.w(x.Op.String())
		p.w(" ")
		p.printExpr(x.RHS)
	case *CallExpr:
		p.printExpr(x.Fn)
		p.w("(")
		for i, a := range x.Args {
			if i > 0 {
				p.w(", ")
			}
			p.printExpr(a)
		}
		p.w(")")
	case *IndexExpr:
		p.printExpr(x.X)
		p.w("[")
		p.printExpr(x.Index)
		p.w("]")
	case *FieldExpr:
		p.printExpr(x.X)
		p.w(".")
		p.w(x.Name.Name)
	case *PathExpr:
		p.w(x.Type.Name)
		p.w("::")
		p.w(x.Item.Name)
	case *StructLit:
		p.w(x.Name.Name)
		p.w(" { ")
		for i, f := range x.Fields {
			if i > 0 {
				p.w(", ")
			}
			p.w(f.Name.Name)
			p.w(": ")
			p.printExpr(f.Value)
		}
		p.w(" }")
	case *VecLit:
		p.w("vec")
		if x.ElemT != nil {
			p.w("<")
			p.printType(x.ElemT)
			p.w(">")
		}
		p.w("[")
		for i, el := range x.Elems {
			if i > 0 {
				p.w(", ")
			}
			p.printExpr(el)
		}
		p.w("]")
	case *LambdaExpr:
		p.w("fn(")
		for i, param := range x.Params {
			if i > 0 {
				p.w(", ")
			}
			if param.Mut {
				p.w("mut ")
			}
			p.w(param.Name.Name)
			p.w(": ")
			p.printType(param.Type)
		}
		p.w(")")
		if x.RetType != nil {
			p.w(" -> ")
			p.printType(x.RetType)
		}
		p.w(" ")
		p.printStmt(x.Body)
	case *MatchExpr:
		p.w("match ")
		p.printExpr(x.Scrutinee)
		p.w(" { ")
		for i, arm := range x.Arms {
			if i > 0 {
				p.w(", ")
			}
			p.printExpr(arm.Pattern)
			p.w(" => ")
			p.printExpr(arm.Value)
		}
		p.w(" }")
	default:
		panic(fmt.Sprintf("printer: unhandled expr %T", e))
	}
}
