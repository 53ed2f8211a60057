package datamap

var primitives = []string{
	"boolean", "byte", "char", "short", "int", "long", "float", "double", "void", "var",
}

// builtins are the java.lang types visible without an import.
var builtins = []string{
	// core classes
	"Object", "String", "System", "Integer", "Long", "Double", "Float", "Boolean",
	"Byte", "Character", "Short", "Void", "Number", "Math", "StrictMath", "Class",
	"ClassLoader", "Thread", "ThreadGroup", "ThreadLocal", "InheritableThreadLocal",
	"StringBuilder", "StringBuffer", "Enum", "Record", "Runtime", "Process",
	"ProcessBuilder", "StackTraceElement", "StackWalker", "Package", "Module",
	"ModuleLayer", "SecurityManager",

	// interfaces
	"Iterable", "AutoCloseable", "Runnable", "Comparable", "CharSequence",
	"Cloneable", "Appendable", "Readable",

	// annotations
	"Override", "Deprecated", "SuppressWarnings", "SafeVarargs", "FunctionalInterface",

	// throwables
	"Throwable", "Exception", "RuntimeException", "Error",
	"NullPointerException", "IllegalArgumentException", "IllegalStateException",
	"IndexOutOfBoundsException", "ArrayIndexOutOfBoundsException",
	"StringIndexOutOfBoundsException", "UnsupportedOperationException",
	"ClassCastException", "ArithmeticException", "NumberFormatException",
	"NegativeArraySizeException", "ArrayStoreException", "SecurityException",
	"CloneNotSupportedException", "InterruptedException", "ReflectiveOperationException",
	"ClassNotFoundException", "NoSuchMethodException", "NoSuchFieldException",
	"IllegalAccessException", "InstantiationException", "IllegalMonitorStateException",
	"EnumConstantNotPresentException", "TypeNotPresentException",
	"AssertionError", "LinkageError", "OutOfMemoryError", "StackOverflowError",
	"ExceptionInInitializerError", "NoClassDefFoundError", "VirtualMachineError",
	"InternalError",
}

// NewBase returns the root scope holding primitives and java.lang types. It
// terminates every scope chain of a project.
func NewBase() *Map {
	m := newMap(nil, nil)
	for _, name := range primitives {
		m.names[name] = &Primitive{name: name}
	}
	for _, name := range builtins {
		m.names[name] = &Builtin{name: name, full: "java.lang." + name}
	}
	return m
}

// NewScope returns a scope above file level, such as a project, module or
// package scope.
func NewScope(parent *Map) *Map {
	return newMap(parent, nil)
}
