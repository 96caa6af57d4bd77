package challenge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TranspilePython 把 Python 子集转换为可在沙箱中执行的 JavaScript
//
// 支持顶层函数定义、常见控制流、列表/字典/集合及其推导式、切片、lambda 和常用内置函数。
// 类、import、异常处理、生成器等语法会返回包装 ErrUnsupportedSyntax 的错误并指明行号。
// 生成的代码依赖执行器预先注入的运行时辅助函数（__getitem、__iter 等）。
func TranspilePython(src string) (string, error) {
	lines, err := lexPython(src)
	if err != nil {
		return "", err
	}
	module, err := parseModule(lines)
	if err != nil {
		return "", err
	}
	e := newEmitter(module)
	out := e.module(module)
	if e.err != nil {
		return "", e.err
	}
	return out, nil
}

// 可直接调用的内置函数，映射到运行时的 __b_<name>
var pyBuiltins = map[string]bool{
	"len": true, "range": true, "abs": true, "min": true, "max": true, "sum": true,
	"sorted": true, "reversed": true, "enumerate": true, "zip": true, "map": true, "filter": true,
	"any": true, "all": true, "int": true, "float": true, "str": true, "bool": true,
	"list": true, "tuple": true, "set": true, "dict": true, "print": true, "ord": true,
	"chr": true, "pow": true, "divmod": true, "round": true, "isinstance": true,
}

// Python 中合法、在 JS 中是保留字或有特殊含义的标识符
var jsReserved = map[string]bool{
	"arguments": true, "case": true, "catch": true, "const": true, "debugger": true,
	"default": true, "delete": true, "do": true, "enum": true, "eval": true, "export": true,
	"extends": true, "function": true, "implements": true, "instanceof": true,
	"interface": true, "let": true, "new": true, "null": true, "package": true,
	"private": true, "protected": true, "public": true, "static": true, "super": true,
	"switch": true, "this": true, "throw": true, "typeof": true, "undefined": true,
	"var": true, "void": true, "Infinity": true, "NaN": true, "Math": true, "JSON": true,
	"Array": true, "Object": true, "String": true, "Number": true, "Map": true, "Set": true,
	"console": true, "Error": true,
}

// jsIdent 把 Python 标识符映射成不会与 JS 关键字或运行时辅助函数冲突的名字
func jsIdent(name string) string {
	if jsReserved[name] || strings.HasPrefix(name, "__") {
		return "$" + name
	}
	return name
}

type scope struct {
	names  map[string]bool
	parent *scope
}

func (s *scope) has(name string) bool {
	for c := s; c != nil; c = c.parent {
		if c.names[name] {
			return true
		}
	}
	return false
}

type funcCtx struct {
	temps []string
}

type emitter struct {
	scope *scope
	fn    *funcCtx
	seq   int
	line  int
	err   error
}

func newEmitter(module []stmt) *emitter {
	names := map[string]bool{}
	collectAssigned(module, names, true)
	return &emitter{scope: &scope{names: names}, fn: &funcCtx{}}
}

func (e *emitter) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *emitter) unsupported(format string, args ...any) string {
	e.fail(unsupportedErr(e.line, format, args...))
	return "undefined"
}

// temp 申请一个在当前函数顶部声明的临时变量
func (e *emitter) temp() string {
	name := e.uniq("__t")
	e.fn.temps = append(e.fn.temps, name)
	return name
}

func (e *emitter) uniq(prefix string) string {
	e.seq++
	return fmt.Sprintf("%s%d", prefix, e.seq)
}

// collectAssigned 收集一段语句里被赋值的名字（不进入函数体）
func collectAssigned(body []stmt, names map[string]bool, module bool) {
	for _, s := range body {
		switch s := s.(type) {
		case *defStmt:
			if module {
				names[s.name] = true
			}
		case *assignStmt:
			for _, t := range s.targets {
				collectTargetNames(t, names)
			}
		case *augAssignStmt:
			collectTargetNames(s.target, names)
		case *forStmt:
			collectTargetNames(s.target, names)
			collectAssigned(s.body, names, module)
		case *whileStmt:
			collectAssigned(s.body, names, module)
		case *ifStmt:
			collectAssigned(s.body, names, module)
			collectAssigned(s.orelse, names, module)
		}
	}
}

func collectTargetNames(t expr, names map[string]bool) {
	switch t := t.(type) {
	case *nameExpr:
		names[t.id] = true
	case *tupleExpr:
		for _, x := range t.elts {
			collectTargetNames(x, names)
		}
	case *listExpr:
		for _, x := range t.elts {
			collectTargetNames(x, names)
		}
	}
}

func sortedNames(names map[string]bool, exclude map[string]bool) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		if !exclude[n] {
			out = append(out, jsIdent(n))
		}
	}
	sortStrings(out)
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// ---- 语句 ----

type jsWriter struct {
	sb strings.Builder
}

func (w *jsWriter) line(depth int, format string, args ...any) {
	w.sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (e *emitter) module(body []stmt) string {
	w := &jsWriter{}
	e.block(w, body, 0)

	var head strings.Builder
	vars := sortedNames(e.scope.names, nil)
	vars = append(vars, e.fn.temps...)
	if len(vars) > 0 {
		fmt.Fprintf(&head, "var %s;\n", strings.Join(vars, ", "))
	}
	return head.String() + w.sb.String()
}

func (e *emitter) block(w *jsWriter, body []stmt, depth int) {
	for _, s := range body {
		if e.err != nil {
			return
		}
		e.statement(w, s, depth)
	}
}

func (e *emitter) statement(w *jsWriter, s stmt, depth int) {
	switch s := s.(type) {
	case *defStmt:
		e.line = s.line
		e.def(w, s, depth)

	case *ifStmt:
		e.line = s.line
		w.line(depth, "if (%s) {", e.cond(s.cond))
		e.block(w, s.body, depth+1)
		e.orelse(w, s.orelse, depth)

	case *whileStmt:
		e.line = s.line
		w.line(depth, "while (%s) {", e.cond(s.cond))
		e.block(w, s.body, depth+1)
		w.line(depth, "}")

	case *forStmt:
		e.line = s.line
		it := e.temp()
		w.line(depth, "for (%s of __iter(%s)) {", it, e.js(s.iter))
		e.assignTo(w, s.target, it, depth+1)
		e.block(w, s.body, depth+1)
		w.line(depth, "}")

	case *returnStmt:
		e.line = s.line
		if s.value == nil {
			w.line(depth, "return null;")
		} else {
			w.line(depth, "return %s;", e.js(s.value))
		}

	case *assignStmt:
		e.line = s.line
		value := e.js(s.value)
		if len(s.targets) == 1 {
			if name, ok := s.targets[0].(*nameExpr); ok {
				w.line(depth, "%s = %s;", jsIdent(name.id), value)
				return
			}
		}
		tmp := e.temp()
		w.line(depth, "%s = %s;", tmp, value)
		for _, t := range s.targets {
			e.assignTo(w, t, tmp, depth)
		}

	case *augAssignStmt:
		e.line = s.line
		e.augAssign(w, s, depth)

	case *delStmt:
		for _, t := range s.targets {
			ix := t.(*indexExpr)
			w.line(depth, "__delitem(%s, %s);", e.js(ix.x), e.js(ix.index))
		}

	case *exprStmt:
		if _, ok := s.x.(*strExpr); ok {
			// 文档字符串
			return
		}
		w.line(depth, "%s;", e.js(s.x))

	case *passStmt:
	case *breakStmt:
		w.line(depth, "break;")
	case *continueStmt:
		w.line(depth, "continue;")
	}
}

func (e *emitter) orelse(w *jsWriter, orelse []stmt, depth int) {
	if len(orelse) == 0 {
		w.line(depth, "}")
		return
	}
	if elif, ok := orelse[0].(*ifStmt); ok && len(orelse) == 1 {
		e.line = elif.line
		w.line(depth, "} else if (%s) {", e.cond(elif.cond))
		e.block(w, elif.body, depth+1)
		e.orelse(w, elif.orelse, depth)
		return
	}
	w.line(depth, "} else {")
	e.block(w, orelse, depth+1)
	w.line(depth, "}")
}

func (e *emitter) def(w *jsWriter, s *defStmt, depth int) {
	params := map[string]bool{}
	jsParams := make([]string, len(s.params))
	for i, p := range s.params {
		params[p.name] = true
		jsParams[i] = jsIdent(p.name)
	}
	locals := map[string]bool{}
	collectAssigned(s.body, locals, false)

	outerScope, outerFn := e.scope, e.fn
	all := map[string]bool{}
	for n := range params {
		all[n] = true
	}
	for n := range locals {
		all[n] = true
	}
	e.scope = &scope{names: all, parent: outerScope}
	e.fn = &funcCtx{}

	body := &jsWriter{}
	for _, p := range s.params {
		if p.def != nil {
			body.line(depth+1, "if (%s === undefined) %s = %s;", jsIdent(p.name), jsIdent(p.name), e.js(p.def))
		}
	}
	e.block(body, s.body, depth+1)
	body.line(depth+1, "return null;")

	vars := sortedNames(locals, params)
	vars = append(vars, e.fn.temps...)
	e.scope, e.fn = outerScope, outerFn

	w.line(depth, "function %s(%s) {", jsIdent(s.name), strings.Join(jsParams, ", "))
	if len(vars) > 0 {
		w.line(depth+1, "var %s;", strings.Join(vars, ", "))
	}
	w.sb.WriteString(body.sb.String())
	w.line(depth, "}")
}

// assignTo 把 value（一个 JS 表达式，通常是临时变量）赋给目标
func (e *emitter) assignTo(w *jsWriter, target expr, value string, depth int) {
	switch t := target.(type) {
	case *nameExpr:
		w.line(depth, "%s = %s;", jsIdent(t.id), value)
	case *indexExpr:
		w.line(depth, "__setitem(%s, %s, %s);", e.js(t.x), e.js(t.index), value)
	case *tupleExpr:
		e.unpack(w, t.elts, value, depth)
	case *listExpr:
		e.unpack(w, t.elts, value, depth)
	default:
		e.unsupported("cannot assign to this expression")
	}
}

func (e *emitter) unpack(w *jsWriter, elts []expr, value string, depth int) {
	tmp := e.temp()
	w.line(depth, "%s = __unpack(%s, %d);", tmp, value, len(elts))
	for i, elt := range elts {
		e.assignTo(w, elt, fmt.Sprintf("%s[%d]", tmp, i), depth)
	}
}

func (e *emitter) augAssign(w *jsWriter, s *augAssignStmt, depth int) {
	value := e.js(s.value)
	switch t := s.target.(type) {
	case *nameExpr:
		name := jsIdent(t.id)
		w.line(depth, "%s = %s;", name, binaryJS(s.op, name, value))
	case *indexExpr:
		obj, key := e.temp(), e.temp()
		w.line(depth, "%s = %s;", obj, e.js(t.x))
		w.line(depth, "%s = %s;", key, e.js(t.index))
		current := fmt.Sprintf("__getitem(%s, %s)", obj, key)
		w.line(depth, "__setitem(%s, %s, %s);", obj, key, binaryJS(s.op, current, value))
	}
}

// ---- 表达式 ----

// binaryJS 二元运算；需要 Python 语义的运算交给运行时辅助函数
func binaryJS(op, l, r string) string {
	switch op {
	case "+":
		return fmt.Sprintf("__add(%s, %s)", l, r)
	case "*":
		return fmt.Sprintf("__mul(%s, %s)", l, r)
	case "/":
		return fmt.Sprintf("__div(%s, %s)", l, r)
	case "//":
		return fmt.Sprintf("__floordiv(%s, %s)", l, r)
	case "%":
		return fmt.Sprintf("__mod(%s, %s)", l, r)
	case "**":
		return fmt.Sprintf("Math.pow(%s, %s)", l, r)
	}
	return fmt.Sprintf("(%s %s %s)", l, op, r)
}

func (e *emitter) list(xs []expr) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = e.js(x)
	}
	return strings.Join(parts, ", ")
}

// cond 布尔上下文中的表达式
func (e *emitter) cond(x expr) string {
	switch x := x.(type) {
	case *compareExpr:
		return e.js(x)
	case *notExpr:
		return "!" + e.cond(x.x)
	case *boolExpr:
		op := "&&"
		if x.op == "or" {
			op = "||"
		}
		return fmt.Sprintf("(%s %s %s)", e.cond(x.l), op, e.cond(x.r))
	case *constExpr:
		if x.value == "True" {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("__truthy(%s)", e.js(x))
}

func (e *emitter) js(x expr) string {
	if e.err != nil {
		return "undefined"
	}
	switch x := x.(type) {
	case *nameExpr:
		return e.name(x.id)

	case *numExpr:
		return x.text

	case *strExpr:
		b, _ := json.Marshal(x.value)
		return string(b)

	case *constExpr:
		switch x.value {
		case "True":
			return "true"
		case "False":
			return "false"
		}
		return "null"

	case *tupleExpr:
		return "[" + e.list(x.elts) + "]"
	case *listExpr:
		return "[" + e.list(x.elts) + "]"
	case *setExpr:
		return "__b_set([" + e.list(x.elts) + "])"
	case *dictExpr:
		pairs := make([]string, len(x.keys))
		for i := range x.keys {
			pairs[i] = fmt.Sprintf("[%s, %s]", e.js(x.keys[i]), e.js(x.values[i]))
		}
		return "__dict([" + strings.Join(pairs, ", ") + "])"

	case *binExpr:
		return binaryJS(x.op, e.js(x.l), e.js(x.r))

	case *unaryExpr:
		return fmt.Sprintf("(%s%s)", x.op, e.js(x.x))

	case *notExpr:
		return "!" + e.cond(x.x)

	case *boolExpr:
		// and/or 返回操作数本身
		l, r := e.js(x.l), e.js(x.r)
		if x.op == "and" {
			return fmt.Sprintf("(__truthy(__o = %s) ? %s : __o)", l, r)
		}
		return fmt.Sprintf("(__truthy(__o = %s) ? __o : %s)", l, r)

	case *compareExpr:
		parts := make([]string, len(x.ops))
		left := e.js(x.first)
		for i, op := range x.ops {
			right := e.js(x.rest[i])
			parts[i] = compareJS(op, left, right, x.rest[i])
			left = right
		}
		if len(parts) == 1 {
			return parts[0]
		}
		return "(" + strings.Join(parts, " && ") + ")"

	case *ifExpr:
		return fmt.Sprintf("(%s ? %s : %s)", e.cond(x.cond), e.js(x.a), e.js(x.b))

	case *lambdaExpr:
		names := map[string]bool{}
		params := make([]string, len(x.params))
		for i, p := range x.params {
			names[p] = true
			params[i] = jsIdent(p)
		}
		outer := e.scope
		e.scope = &scope{names: names, parent: outer}
		body := e.js(x.body)
		e.scope = outer
		return fmt.Sprintf("(function(%s) { return %s; })", strings.Join(params, ", "), body)

	case *callExpr:
		return e.call(x)

	case *attrExpr:
		return e.unsupported("attribute access (.%s) is only supported for method calls", x.name)

	case *indexExpr:
		return fmt.Sprintf("__getitem(%s, %s)", e.js(x.x), e.js(x.index))

	case *sliceExpr:
		return fmt.Sprintf("__slice(%s, %s, %s, %s)", e.js(x.x), e.optional(x.lo), e.optional(x.hi), e.optional(x.step))

	case *compExpr:
		return e.comprehension(x)
	}
	return e.unsupported("unsupported expression")
}

func (e *emitter) optional(x expr) string {
	if x == nil {
		return "null"
	}
	return e.js(x)
}

func compareJS(op, l, r string, right expr) string {
	switch op {
	case "==":
		return fmt.Sprintf("__eq(%s, %s)", l, r)
	case "!=":
		return fmt.Sprintf("!__eq(%s, %s)", l, r)
	case "in":
		return fmt.Sprintf("__in(%s, %s)", l, r)
	case "not in":
		return fmt.Sprintf("!__in(%s, %s)", l, r)
	case "is", "is not":
		eq := "==="
		if c, ok := right.(*constExpr); ok && c.value == "None" {
			// undefined 也视为 None
			eq = "=="
		}
		if op == "is not" {
			eq = "!" + eq[1:]
		}
		return fmt.Sprintf("(%s %s %s)", l, eq, r)
	}
	return fmt.Sprintf("(%s %s %s)", l, op, r)
}

func (e *emitter) name(id string) string {
	if !e.scope.has(id) && pyBuiltins[id] {
		return "__b_" + id
	}
	return jsIdent(id)
}

func (e *emitter) call(x *callExpr) string {
	args := e.list(x.args)
	if len(x.kwNames) > 0 {
		fields := make([]string, len(x.kwNames))
		for i, name := range x.kwNames {
			fields[i] = fmt.Sprintf("%q: %s", name, e.js(x.kwValues[i]))
		}
		kw := "__kw({" + strings.Join(fields, ", ") + "})"
		if args == "" {
			args = kw
		} else {
			args += ", " + kw
		}
	}

	switch fn := x.fn.(type) {
	case *attrExpr:
		return fmt.Sprintf("__method(%s, %q, [%s])", e.js(fn.x), fn.name, args)
	case *nameExpr:
		callee := e.name(fn.id)
		if len(x.kwNames) > 0 && !strings.HasPrefix(callee, "__b_") {
			return e.unsupported("keyword arguments are only supported for built-in functions")
		}
		return fmt.Sprintf("%s(%s)", callee, args)
	}
	if len(x.kwNames) > 0 {
		return e.unsupported("keyword arguments are only supported for built-in functions")
	}
	return fmt.Sprintf("(%s)(%s)", e.js(x.fn), args)
}

// comprehension 推导式展开为立即执行的函数
func (e *emitter) comprehension(c *compExpr) string {
	names := map[string]bool{}
	for _, cl := range c.clauses {
		collectTargetNames(cl.target, names)
	}

	// 第一个可迭代对象在外层作用域求值
	firstIter := e.js(c.clauses[0].iter)

	outerScope, outerFn := e.scope, e.fn
	e.scope = &scope{names: names, parent: outerScope}
	e.fn = &funcCtx{}

	result := e.uniq("__r")
	var init, add string
	switch c.kind {
	case "set":
		init = "new Set()"
		add = fmt.Sprintf("%s.add(%s);", result, e.js(c.elt))
	case "dict":
		init = "new Map()"
		add = fmt.Sprintf("%s.set(%s, %s);", result, e.js(c.key), e.js(c.elt))
	default:
		init = "[]"
		add = fmt.Sprintf("%s.push(%s);", result, e.js(c.elt))
	}

	body := add
	for i := len(c.clauses) - 1; i >= 0; i-- {
		cl := c.clauses[i]
		for j := len(cl.conds) - 1; j >= 0; j-- {
			body = fmt.Sprintf("if (%s) { %s }", e.cond(cl.conds[j]), body)
		}
		it := e.temp()
		w := &jsWriter{}
		e.assignTo(w, cl.target, it, 0)
		assign := strings.ReplaceAll(strings.TrimSpace(w.sb.String()), "\n", " ")
		iter := firstIter
		if i > 0 {
			iter = e.js(cl.iter)
		}
		body = fmt.Sprintf("for (%s of __iter(%s)) { %s %s }", it, iter, assign, body)
	}

	vars := append(sortedNames(names, nil), e.fn.temps...)
	e.scope, e.fn = outerScope, outerFn
	return fmt.Sprintf("(function() { var %s; var %s = %s; %s return %s; })()", strings.Join(vars, ", "), result, init, body, result)
}
