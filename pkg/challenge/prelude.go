package challenge

// jsPrelude 每个运行时预先注入的辅助函数
// Python 转换结果依赖这些函数实现 Python 的语义（下标、迭代、真值、相等等）
const jsPrelude = `
var __o;
var __KW = {};

function __raise(kind, msg) {
  var e = new Error(msg);
  e.name = kind;
  throw e;
}

function __kw(obj) {
  obj.__kwmark = __KW;
  return obj;
}

function __kwargs(args) {
  if (args.length > 0) {
    var last = args[args.length - 1];
    if (last !== null && typeof last === 'object' && last.__kwmark === __KW) {
      args.pop();
      return last;
    }
  }
  return {};
}

function __isPlainObject(v) {
  return v !== null && typeof v === 'object' && !Array.isArray(v) && !(v instanceof Map) && !(v instanceof Set);
}

function __truthy(v) {
  if (v === null || v === undefined) return false;
  if (Array.isArray(v) || typeof v === 'string') return v.length > 0;
  if (v instanceof Map || v instanceof Set) return v.size > 0;
  if (__isPlainObject(v)) return Object.keys(v).length > 0;
  return !!v;
}

function __typeName(v) {
  if (v === null || v === undefined) return 'NoneType';
  if (Array.isArray(v)) return 'list';
  if (v instanceof Map) return 'dict';
  if (v instanceof Set) return 'set';
  if (typeof v === 'string') return 'str';
  if (typeof v === 'boolean') return 'bool';
  if (typeof v === 'number') return Number.isInteger(v) ? 'int' : 'float';
  if (typeof v === 'function') return 'function';
  return 'object';
}

function __eq(a, b) {
  if (a === b) return true;
  if (a === null || a === undefined || b === null || b === undefined) return a == b;
  var ta = typeof a, tb = typeof b;
  if ((ta === 'number' || ta === 'boolean') && (tb === 'number' || tb === 'boolean')) return Number(a) === Number(b);
  if (Array.isArray(a) && Array.isArray(b)) {
    if (a.length !== b.length) return false;
    for (var i = 0; i < a.length; i++) if (!__eq(a[i], b[i])) return false;
    return true;
  }
  if (a instanceof Map && b instanceof Map) {
    if (a.size !== b.size) return false;
    var eq = true;
    a.forEach(function(v, k) { if (!b.has(k) || !__eq(v, b.get(k))) eq = false; });
    return eq;
  }
  if (a instanceof Set && b instanceof Set) {
    if (a.size !== b.size) return false;
    var all = true;
    a.forEach(function(v) { if (!b.has(v)) all = false; });
    return all;
  }
  return false;
}

function __cmp(a, b) {
  if (Array.isArray(a) && Array.isArray(b)) {
    var n = Math.min(a.length, b.length);
    for (var i = 0; i < n; i++) {
      var c = __cmp(a[i], b[i]);
      if (c !== 0) return c;
    }
    return a.length - b.length;
  }
  if (a < b) return -1;
  if (a > b) return 1;
  return 0;
}

function __len(v) {
  if (Array.isArray(v) || typeof v === 'string') return v.length;
  if (v instanceof Map || v instanceof Set) return v.size;
  if (__isPlainObject(v)) return Object.keys(v).length;
  __raise('TypeError', "object of type '" + __typeName(v) + "' has no len()");
}

function __iter(v) {
  if (Array.isArray(v)) return v;
  if (typeof v === 'string') return Array.from(v);
  if (v instanceof Map) return Array.from(v.keys());
  if (v instanceof Set) return Array.from(v.values());
  if (__isPlainObject(v)) return Object.keys(v);
  __raise('TypeError', "'" + __typeName(v) + "' object is not iterable");
}

function __in(x, c) {
  if (Array.isArray(c)) {
    for (var i = 0; i < c.length; i++) if (__eq(c[i], x)) return true;
    return false;
  }
  if (typeof c === 'string') {
    if (typeof x !== 'string') __raise('TypeError', "'in <string>' requires string as left operand");
    return c.indexOf(x) !== -1;
  }
  if (c instanceof Map || c instanceof Set) return c.has(x);
  if (__isPlainObject(c)) return Object.prototype.hasOwnProperty.call(c, x);
  __raise('TypeError', "argument of type '" + __typeName(c) + "' is not iterable");
}

function __num(v) {
  if (typeof v === 'boolean') return v ? 1 : 0;
  return v;
}

function __add(a, b) {
  if (typeof a === 'number' && typeof b === 'number') return a + b;
  if (typeof a === 'string' && typeof b === 'string') return a + b;
  if (Array.isArray(a) && Array.isArray(b)) return a.concat(b);
  var na = __num(a), nb = __num(b);
  if (typeof na === 'number' && typeof nb === 'number') return na + nb;
  __raise('TypeError', "unsupported operand type(s) for +: '" + __typeName(a) + "' and '" + __typeName(b) + "'");
}

function __repeat(seq, n) {
  if (typeof seq === 'string') return n > 0 ? seq.repeat(n) : '';
  var out = [];
  for (var i = 0; i < n; i++) for (var j = 0; j < seq.length; j++) out.push(seq[j]);
  return out;
}

function __mul(a, b) {
  if (typeof a === 'number' && typeof b === 'number') return a * b;
  if ((Array.isArray(a) || typeof a === 'string') && typeof b === 'number') return __repeat(a, b);
  if ((Array.isArray(b) || typeof b === 'string') && typeof a === 'number') return __repeat(b, a);
  var na = __num(a), nb = __num(b);
  if (typeof na === 'number' && typeof nb === 'number') return na * nb;
  __raise('TypeError', "unsupported operand type(s) for *: '" + __typeName(a) + "' and '" + __typeName(b) + "'");
}

function __div(a, b) {
  if (__num(b) === 0) __raise('ZeroDivisionError', 'division by zero');
  return __num(a) / __num(b);
}

function __floordiv(a, b) {
  if (__num(b) === 0) __raise('ZeroDivisionError', 'integer division or modulo by zero');
  return Math.floor(__num(a) / __num(b));
}

function __mod(a, b) {
  a = __num(a); b = __num(b);
  if (b === 0) __raise('ZeroDivisionError', 'integer division or modulo by zero');
  var r = a % b;
  if (r !== 0 && (r < 0) !== (b < 0)) r += b;
  return r;
}

function __index(seq, i) {
  if (typeof i === 'boolean') i = i ? 1 : 0;
  if (typeof i !== 'number' || !Number.isInteger(i)) {
    __raise('TypeError', 'indices must be integers, not ' + __typeName(i));
  }
  var n = seq.length;
  if (i < 0) i += n;
  if (i < 0 || i >= n) {
    __raise('IndexError', (typeof seq === 'string' ? 'string' : 'list') + ' index out of range');
  }
  return i;
}

function __getitem(o, k) {
  if (Array.isArray(o) || typeof o === 'string') return o[__index(o, k)];
  if (o instanceof Map) {
    if (!o.has(k)) __raise('KeyError', __repr(k));
    return o.get(k);
  }
  if (__isPlainObject(o)) {
    if (!Object.prototype.hasOwnProperty.call(o, k)) __raise('KeyError', __repr(k));
    return o[k];
  }
  __raise('TypeError', "'" + __typeName(o) + "' object is not subscriptable");
}

function __setitem(o, k, v) {
  if (Array.isArray(o)) {
    o[__index(o, k)] = v;
  } else if (o instanceof Map) {
    o.set(k, v);
  } else if (__isPlainObject(o)) {
    o[k] = v;
  } else {
    __raise('TypeError', "'" + __typeName(o) + "' object does not support item assignment");
  }
  return v;
}

function __delitem(o, k) {
  if (Array.isArray(o)) {
    o.splice(__index(o, k), 1);
  } else if (o instanceof Map) {
    if (!o.delete(k)) __raise('KeyError', __repr(k));
  } else {
    __raise('TypeError', "'" + __typeName(o) + "' object does not support item deletion");
  }
}

function __slice(seq, lo, hi, step) {
  if (!Array.isArray(seq) && typeof seq !== 'string') {
    __raise('TypeError', "'" + __typeName(seq) + "' object is not subscriptable");
  }
  var n = seq.length;
  step = (step === null || step === undefined) ? 1 : step;
  if (step === 0) __raise('ValueError', 'slice step cannot be zero');
  var out = [], i;
  if (step > 0) {
    lo = (lo === null || lo === undefined) ? 0 : (lo < 0 ? Math.max(lo + n, 0) : Math.min(lo, n));
    hi = (hi === null || hi === undefined) ? n : (hi < 0 ? Math.max(hi + n, 0) : Math.min(hi, n));
    for (i = lo; i < hi; i += step) out.push(seq[i]);
  } else {
    lo = (lo === null || lo === undefined) ? n - 1 : (lo < 0 ? Math.max(lo + n, -1) : Math.min(lo, n - 1));
    hi = (hi === null || hi === undefined) ? -1 : (hi < 0 ? Math.max(hi + n, -1) : Math.min(hi, n - 1));
    for (i = lo; i > hi; i += step) out.push(seq[i]);
  }
  return typeof seq === 'string' ? out.join('') : out;
}

function __unpack(v, n) {
  var items = __iter(v);
  if (items.length !== n) {
    __raise('ValueError', items.length > n ? 'too many values to unpack (expected ' + n + ')' : 'not enough values to unpack (expected ' + n + ', got ' + items.length + ')');
  }
  return items;
}

function __dict(pairs) {
  var m = new Map();
  for (var i = 0; i < pairs.length; i++) m.set(pairs[i][0], pairs[i][1]);
  return m;
}

function __repr(v) {
  if (typeof v === 'string') return "'" + v + "'";
  return __str(v);
}

function __str(v) {
  if (v === null || v === undefined) return 'None';
  if (v === true) return 'True';
  if (v === false) return 'False';
  if (typeof v === 'number') {
    if (v === Infinity) return 'inf';
    if (v === -Infinity) return '-inf';
    if (v !== v) return 'nan';
    return String(v);
  }
  if (typeof v === 'string') return v;
  if (Array.isArray(v)) return '[' + v.map(__repr).join(', ') + ']';
  if (v instanceof Map) {
    var parts = [];
    v.forEach(function(val, key) { parts.push(__repr(key) + ': ' + __repr(val)); });
    return '{' + parts.join(', ') + '}';
  }
  if (v instanceof Set) {
    if (v.size === 0) return 'set()';
    return '{' + Array.from(v).map(__repr).join(', ') + '}';
  }
  return String(v);
}

// 稳定归并排序
function __sortList(arr, key, reverse) {
  var keyed = arr.map(function(v, i) { return { k: key ? key(v) : v, v: v }; });
  var sorted = __mergeSort(keyed, function(a, b) {
    var c = __cmp(a.k, b.k);
    return reverse ? -c : c;
  });
  for (var i = 0; i < sorted.length; i++) arr[i] = sorted[i].v;
  return arr;
}

function __mergeSort(a, cmp) {
  if (a.length <= 1) return a;
  var mid = a.length >> 1;
  var l = __mergeSort(a.slice(0, mid), cmp), r = __mergeSort(a.slice(mid), cmp);
  var out = [], i = 0, j = 0;
  while (i < l.length && j < r.length) {
    if (cmp(r[j], l[i]) < 0) out.push(r[j++]); else out.push(l[i++]);
  }
  while (i < l.length) out.push(l[i++]);
  while (j < r.length) out.push(r[j++]);
  return out;
}

function __extreme(args, sign, name) {
  args = Array.prototype.slice.call(args);
  var kw = __kwargs(args);
  var items = args.length === 1 ? __iter(args[0]) : args;
  if (items.length === 0) {
    if ('default' in kw) return kw['default'];
    __raise('ValueError', name + '() arg is an empty sequence');
  }
  var best = items[0], bestKey = kw.key ? kw.key(best) : best;
  for (var i = 1; i < items.length; i++) {
    var k = kw.key ? kw.key(items[i]) : items[i];
    if (__cmp(k, bestKey) * sign > 0) { best = items[i]; bestKey = k; }
  }
  return best;
}

// ---- 内置函数 ----

function __b_len(v) { return __len(v); }

function __b_range(a, b, step) {
  if (b === undefined) { b = a; a = 0; }
  step = step === undefined ? 1 : step;
  if (step === 0) __raise('ValueError', 'range() arg 3 must not be zero');
  var out = [];
  if (step > 0) for (var i = a; i < b; i += step) out.push(i);
  else for (var j = a; j > b; j += step) out.push(j);
  return out;
}

function __b_abs(x) { return Math.abs(__num(x)); }
function __b_min() { return __extreme(arguments, -1, 'min'); }
function __b_max() { return __extreme(arguments, 1, 'max'); }

function __b_sum(it, start) {
  var total = start === undefined ? 0 : start;
  var items = __iter(it);
  for (var i = 0; i < items.length; i++) total = __add(total, items[i]);
  return total;
}

function __b_sorted() {
  var args = Array.prototype.slice.call(arguments);
  var kw = __kwargs(args);
  return __sortList(__iter(args[0]).slice(), kw.key || null, !!kw.reverse);
}

function __b_reversed(it) { return __iter(it).slice().reverse(); }

function __b_enumerate(it, start) {
  var items = __iter(it), base = start === undefined ? 0 : start;
  return items.map(function(v, i) { return [i + base, v]; });
}

function __b_zip() {
  var lists = Array.prototype.map.call(arguments, __iter);
  if (lists.length === 0) return [];
  var n = Math.min.apply(null, lists.map(function(l) { return l.length; }));
  var out = [];
  for (var i = 0; i < n; i++) out.push(lists.map(function(l) { return l[i]; }));
  return out;
}

function __b_map(fn, it) { return __iter(it).map(function(v) { return fn(v); }); }

function __b_filter(fn, it) {
  return __iter(it).filter(function(v) { return fn === null ? __truthy(v) : __truthy(fn(v)); });
}

function __b_any(it) { return __iter(it).some(__truthy); }
function __b_all(it) { return __iter(it).every(__truthy); }

function __b_int(v, base) {
  if (v === undefined) return 0;
  if (typeof v === 'boolean') return v ? 1 : 0;
  if (typeof v === 'number') return Math.trunc(v);
  if (typeof v === 'string') {
    var s = v.trim().replace(/_/g, '');
    var radix = base === undefined ? 10 : base;
    var valid = radix === 10 ? /^[+-]?\d+$/ : /^[+-]?[0-9a-zA-Z]+$/;
    var n = parseInt(s, radix);
    if (!valid.test(s) || isNaN(n)) __raise('ValueError', "invalid literal for int() with base " + radix + ": " + __repr(v));
    return n;
  }
  __raise('TypeError', "int() argument must be a string or a number, not '" + __typeName(v) + "'");
}

function __b_float(v) {
  if (v === undefined) return 0;
  if (typeof v === 'string') {
    var s = v.trim().toLowerCase();
    if (s === 'inf' || s === '+inf' || s === 'infinity') return Infinity;
    if (s === '-inf' || s === '-infinity') return -Infinity;
    if (s === 'nan') return NaN;
    var n = Number(s);
    if (s === '' || isNaN(n)) __raise('ValueError', 'could not convert string to float: ' + __repr(v));
    return n;
  }
  return __num(v);
}

function __b_str(v) { return v === undefined ? '' : __str(v); }
function __b_bool(v) { return __truthy(v); }
function __b_list(it) { return it === undefined ? [] : __iter(it).slice(); }
function __b_tuple(it) { return __b_list(it); }
function __b_set(it) { return new Set(it === undefined ? [] : __iter(it)); }

function __b_dict(src) {
  var args = Array.prototype.slice.call(arguments);
  var kw = __kwargs(args);
  var m = new Map();
  if (args.length > 0) {
    if (args[0] instanceof Map) args[0].forEach(function(v, k) { m.set(k, v); });
    else __iter(args[0]).forEach(function(p) { m.set(p[0], p[1]); });
  }
  Object.keys(kw).forEach(function(k) { if (k !== '__kwmark') m.set(k, kw[k]); });
  return m;
}

function __b_print() {
  var args = Array.prototype.slice.call(arguments);
  var kw = __kwargs(args);
  var sep = kw.sep === undefined ? ' ' : kw.sep;
  console.log(args.map(__str).join(sep));
  return null;
}

function __b_ord(c) {
  if (typeof c !== 'string' || c.length === 0) __raise('TypeError', 'ord() expected a character');
  return c.codePointAt(0);
}

function __b_chr(n) { return String.fromCodePoint(n); }

function __b_pow(a, b, m) {
  if (m === undefined) return Math.pow(a, b);
  var result = 1, base = __mod(a, m);
  while (b > 0) {
    if (b % 2 === 1) result = (result * base) % m;
    base = (base * base) % m;
    b = Math.floor(b / 2);
  }
  return result;
}

function __b_divmod(a, b) { return [__floordiv(a, b), __mod(a, b)]; }

function __b_round(x, digits) {
  if (digits === undefined || digits === null) {
    var r = Math.round(x);
    // 银行家舍入
    if (Math.abs(x % 1) === 0.5 && r % 2 !== 0) r -= 1;
    return r;
  }
  var f = Math.pow(10, digits);
  return Math.round(x * f) / f;
}

function __b_isinstance(v, t) {
  var name = __typeName(v);
  var types = Array.isArray(t) ? t : [t];
  for (var i = 0; i < types.length; i++) {
    var want = types[i];
    if (want === __b_int && (name === 'int' || name === 'bool')) return true;
    if (want === __b_float && (name === 'float' || name === 'int')) return true;
    if (want === __b_str && name === 'str') return true;
    if (want === __b_bool && name === 'bool') return true;
    if ((want === __b_list || want === __b_tuple) && name === 'list') return true;
    if (want === __b_dict && name === 'dict') return true;
    if (want === __b_set && name === 'set') return true;
  }
  return false;
}

// ---- 方法调用 ----

function __method(o, name, args) {
  var kw = __kwargs(args);
  var a0 = args[0], a1 = args[1];
  if (typeof o === 'string') return __strMethod(o, name, args, a0, a1);
  if (Array.isArray(o)) {
    switch (name) {
      case 'append': o.push(a0); return null;
      case 'extend': __iter(a0).forEach(function(v) { o.push(v); }); return null;
      case 'insert':
        var at = a0 < 0 ? Math.max(a0 + o.length, 0) : Math.min(a0, o.length);
        o.splice(at, 0, a1);
        return null;
      case 'pop':
        if (o.length === 0) __raise('IndexError', 'pop from empty list');
        return o.splice(__index(o, a0 === undefined ? -1 : a0), 1)[0];
      case 'remove':
        for (var i = 0; i < o.length; i++) {
          if (__eq(o[i], a0)) { o.splice(i, 1); return null; }
        }
        __raise('ValueError', 'list.remove(x): x not in list');
        break;
      case 'index':
        for (var j = 0; j < o.length; j++) if (__eq(o[j], a0)) return j;
        __raise('ValueError', __repr(a0) + ' is not in list');
        break;
      case 'count': return o.filter(function(v) { return __eq(v, a0); }).length;
      case 'sort': __sortList(o, kw.key || null, !!kw.reverse); return null;
      case 'reverse': o.reverse(); return null;
      case 'copy': return o.slice();
      case 'clear': o.length = 0; return null;
    }
  } else if (o instanceof Map) {
    switch (name) {
      case 'get': return o.has(a0) ? o.get(a0) : (a1 === undefined ? null : a1);
      case 'keys': return Array.from(o.keys());
      case 'values': return Array.from(o.values());
      case 'items': return Array.from(o.entries());
      case 'pop':
        if (o.has(a0)) { var v = o.get(a0); o.delete(a0); return v; }
        if (args.length > 1) return a1;
        __raise('KeyError', __repr(a0));
        break;
      case 'setdefault':
        if (!o.has(a0)) o.set(a0, a1 === undefined ? null : a1);
        return o.get(a0);
      case 'update':
        if (a0 instanceof Map) a0.forEach(function(val, key) { o.set(key, val); });
        else if (a0 !== undefined) __iter(a0).forEach(function(p) { o.set(p[0], p[1]); });
        return null;
      case 'copy': return new Map(o);
      case 'clear': o.clear(); return null;
    }
  } else if (o instanceof Set) {
    switch (name) {
      case 'add': o.add(a0); return null;
      case 'remove':
        if (!o.delete(a0)) __raise('KeyError', __repr(a0));
        return null;
      case 'discard': o.delete(a0); return null;
      case 'pop':
        if (o.size === 0) __raise('KeyError', 'pop from an empty set');
        var first = o.values().next().value;
        o.delete(first);
        return first;
      case 'update': __iter(a0).forEach(function(x) { o.add(x); }); return null;
      case 'copy': return new Set(o);
      case 'clear': o.clear(); return null;
      case 'union':
        var u = new Set(o);
        __iter(a0).forEach(function(x) { u.add(x); });
        return u;
      case 'intersection':
        var other = __b_set(a0);
        return new Set(Array.from(o).filter(function(x) { return other.has(x); }));
      case 'difference':
        var d = __b_set(a0);
        return new Set(Array.from(o).filter(function(x) { return !d.has(x); }));
      case 'issubset':
        var sup = __b_set(a0);
        return Array.from(o).every(function(x) { return sup.has(x); });
      case 'issuperset':
        return __iter(a0).every(function(x) { return o.has(x); });
    }
  }
  __raise('AttributeError', "'" + __typeName(o) + "' object has no attribute '" + name + "'");
}

function __strMethod(s, name, args, a0, a1) {
  switch (name) {
    case 'lower': return s.toLowerCase();
    case 'upper': return s.toUpperCase();
    case 'strip': return __strip(s, a0, true, true);
    case 'lstrip': return __strip(s, a0, true, false);
    case 'rstrip': return __strip(s, a0, false, true);
    case 'split':
      if (a0 === undefined || a0 === null) {
        var t = s.trim();
        return t === '' ? [] : t.split(/\s+/);
      }
      return s.split(a0);
    case 'join':
      return __iter(a0).map(function(x) {
        if (typeof x !== 'string') __raise('TypeError', 'sequence item: expected str instance, ' + __typeName(x) + ' found');
        return x;
      }).join(s);
    case 'startswith': return s.indexOf(a0) === 0;
    case 'endswith': return a0.length <= s.length && s.lastIndexOf(a0) === s.length - a0.length;
    case 'find': return s.indexOf(a0);
    case 'rfind': return s.lastIndexOf(a0);
    case 'index':
      var i = s.indexOf(a0);
      if (i < 0) __raise('ValueError', 'substring not found');
      return i;
    case 'count': return a0 === '' ? s.length + 1 : s.split(a0).length - 1;
    case 'replace': return s.split(a0).join(a1);
    case 'isdigit': return /^[0-9]+$/.test(s);
    case 'isalpha': return /^[A-Za-z]+$/.test(s);
    case 'isalnum': return /^[A-Za-z0-9]+$/.test(s);
    case 'isspace': return /^\s+$/.test(s);
    case 'islower': return s.toLowerCase() === s && s.toUpperCase() !== s;
    case 'isupper': return s.toUpperCase() === s && s.toLowerCase() !== s;
    case 'capitalize': return s.length === 0 ? s : s[0].toUpperCase() + s.slice(1).toLowerCase();
  }
  __raise('AttributeError', "'str' object has no attribute '" + name + "'");
}

function __strip(s, chars, left, right) {
  if (chars === undefined || chars === null) {
    if (left && right) return s.trim();
    return left ? s.replace(/^\s+/, '') : s.replace(/\s+$/, '');
  }
  var start = 0, end = s.length;
  if (left) while (start < end && chars.indexOf(s[start]) !== -1) start++;
  if (right) while (end > start && chars.indexOf(s[end - 1]) !== -1) end--;
  return s.slice(start, end);
}

// ---- 与宿主之间的值转换 ----

function __import(v) {
  if (Array.isArray(v)) return v.map(__import);
  if (__isPlainObject(v)) {
    var m = new Map();
    Object.keys(v).forEach(function(k) { m.set(k, __import(v[k])); });
    return m;
  }
  return v;
}

function __export(v) {
  if (Array.isArray(v)) return v.map(__export);
  if (v instanceof Set) return Array.from(v).map(__export);
  if (v instanceof Map) {
    var o = {};
    v.forEach(function(val, key) { o[String(key)] = __export(val); });
    return o;
  }
  return v === undefined ? null : v;
}

function __pyEntry(fn) {
  return function() {
    var args = [];
    for (var i = 0; i < arguments.length; i++) args.push(__import(arguments[i]));
    return __export(fn.apply(null, args));
  };
}
`
