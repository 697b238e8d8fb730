package parser

import (
	"reflect"
	"testing"

	"codemap/internal/model"
)

func extract(t *testing.T, path, code string) []model.TypeDefinition {
	t.Helper()
	res, err := NewDefault().ExtractTypes(path, []byte(code))
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func findType(defs []model.TypeDefinition, name string) *model.TypeDefinition {
	for i := range defs {
		if defs[i].Name == name {
			return &defs[i]
		}
	}
	return nil
}

func TestRustExtraction(t *testing.T) {
	code := `
struct Point {
    x: f64,
    y: f64,
}

enum Direction {
    North,
    South,
}

trait Drawable {
    type Output;
    fn draw(&self) -> Self::Output;
}

type Alias = Vec<Point>;

impl Point {
    fn norm(&self) -> f64 { 0.0 }
}
`
	defs := extract(t, "geometry.rs", code)
	if len(defs) != 4 {
		t.Fatalf("Expected 4 types, got %d", len(defs))
	}

	point := findType(defs, "Point")
	if point == nil {
		t.Fatal("Point not found")
	}
	if point.Kind != model.KindStruct {
		t.Errorf("Expected struct, got %s", point.Kind)
	}
	if len(point.Fields) != 2 || point.Fields[0].Name != "x" || point.Fields[0].Type != "f64" {
		t.Errorf("Unexpected Point fields: %+v", point.Fields)
	}
	if len(point.Members) != 1 || point.Members[0].Name != "norm" {
		t.Errorf("Expected impl method norm attached to Point, got %+v", point.Members)
	}
	if point.Line != 2 {
		t.Errorf("Expected Point on line 2, got %d", point.Line)
	}

	dir := findType(defs, "Direction")
	if dir == nil || dir.Kind != model.KindEnum {
		t.Fatalf("Direction enum not found: %+v", dir)
	}
	if len(dir.Variants) != 2 || dir.Variants[0].Name != "North" {
		t.Errorf("Unexpected Direction variants: %+v", dir.Variants)
	}

	drawable := findType(defs, "Drawable")
	if drawable == nil || drawable.Kind != model.KindTrait {
		t.Fatalf("Drawable trait not found: %+v", drawable)
	}
	if len(drawable.Members) != 2 {
		t.Errorf("Expected 2 trait members, got %+v", drawable.Members)
	}

	alias := findType(defs, "Alias")
	if alias == nil || alias.Kind != model.KindTypeAlias {
		t.Errorf("Alias type alias not found: %+v", alias)
	}
}

func TestRustImplForUnknownType(t *testing.T) {
	code := `
impl std::fmt::Display for External {
    fn fmt(&self, f: &mut std::fmt::Formatter) -> std::fmt::Result { Ok(()) }
}
`
	defs := extract(t, "ext.rs", code)
	if len(defs) != 0 {
		t.Errorf("Expected no types from orphan impl, got %+v", defs)
	}
}

func TestGoExtraction(t *testing.T) {
	code := `
package sample

type Server struct {
	Host, Port string
	retries    int
}

type Handler interface {
	Serve(addr string) error
	Close() error
}
`
	defs := extract(t, "server.go", code)
	if len(defs) != 2 {
		t.Fatalf("Expected 2 types, got %d", len(defs))
	}

	srv := findType(defs, "Server")
	if srv == nil || srv.Kind != model.KindStruct {
		t.Fatalf("Server struct not found: %+v", srv)
	}
	if len(srv.Fields) != 3 {
		t.Fatalf("Expected 3 fields, got %+v", srv.Fields)
	}
	if srv.Fields[0].Name != "Host" || srv.Fields[0].Type != "string" {
		t.Errorf("Unexpected first field: %+v", srv.Fields[0])
	}
	if srv.Fields[1].Name != "Port" || srv.Fields[1].Type != "string" {
		t.Errorf("Multi-name declaration not expanded: %+v", srv.Fields[1])
	}

	h := findType(defs, "Handler")
	if h == nil || h.Kind != model.KindInterface {
		t.Fatalf("Handler interface not found: %+v", h)
	}
	if len(h.Members) != 2 || h.Members[0].Name != "Serve" {
		t.Errorf("Unexpected interface members: %+v", h.Members)
	}
}

func TestTypeScriptExtraction(t *testing.T) {
	code := `
interface User {
    id: number;
    name: string;
    greet(prefix: string): string;
}

type UserID = number;

enum Color {
    Red,
    Green = 2,
}

class Account {
    balance: number = 0;
    owner: User;
}
`
	defs := extract(t, "accounts.ts", code)
	if len(defs) != 4 {
		t.Fatalf("Expected 4 types, got %d", len(defs))
	}

	user := findType(defs, "User")
	if user == nil || user.Kind != model.KindInterface {
		t.Fatalf("User interface not found: %+v", user)
	}
	if len(user.Fields) != 2 || user.Fields[0].Type != "number" {
		t.Errorf("Unexpected User fields: %+v", user.Fields)
	}
	if len(user.Members) != 1 || user.Members[0].Name != "greet" {
		t.Errorf("Unexpected User members: %+v", user.Members)
	}

	if alias := findType(defs, "UserID"); alias == nil || alias.Kind != model.KindTypeAlias {
		t.Errorf("UserID alias not found: %+v", alias)
	}

	color := findType(defs, "Color")
	if color == nil || color.Kind != model.KindEnum {
		t.Fatalf("Color enum not found: %+v", color)
	}
	if len(color.Variants) != 2 || color.Variants[1].Name != "Green" {
		t.Errorf("Unexpected Color variants: %+v", color.Variants)
	}

	acct := findType(defs, "Account")
	if acct == nil || acct.Kind != model.KindClass {
		t.Fatalf("Account class not found: %+v", acct)
	}
	if len(acct.Fields) != 2 || acct.Fields[0].Name != "balance" || acct.Fields[0].Type != "number" {
		t.Errorf("Unexpected Account fields: %+v", acct.Fields)
	}
}

func TestJavaScriptSkipsTypeScriptConstructs(t *testing.T) {
	code := `
class Cart {
    items = [];
}
`
	defs := extract(t, "cart.js", code)
	if len(defs) != 1 {
		t.Fatalf("Expected 1 type, got %d", len(defs))
	}
	if defs[0].Name != "Cart" || defs[0].Kind != model.KindClass {
		t.Errorf("Unexpected definition: %+v", defs[0])
	}
}

func TestPythonExtraction(t *testing.T) {
	code := `
class Animal:
    sound: str = "?"

    def __init__(self, name):
        self.name = name

    def speak(self):
        return self.sound

class Status(Enum):
    ACTIVE = 1
    CLOSED = 2

class Greeter(Protocol):
    def greet(self, name: str) -> str: ...

Point = NamedTuple("Point", [("x", float), ("y", float)])
Config = TypedDict("Config", {"host": str, "port": int})
`
	defs := extract(t, "zoo.py", code)
	if len(defs) != 5 {
		t.Fatalf("Expected 5 types, got %d", len(defs))
	}

	animal := findType(defs, "Animal")
	if animal == nil || animal.Kind != model.KindClass {
		t.Fatalf("Animal class not found: %+v", animal)
	}
	if findField(animal.Fields, "sound") == nil || findField(animal.Fields, "name") == nil {
		t.Errorf("Expected sound and name fields, got %+v", animal.Fields)
	}
	if len(animal.Members) != 2 {
		t.Errorf("Expected __init__ and speak members, got %+v", animal.Members)
	}

	status := findType(defs, "Status")
	if status == nil || status.Kind != model.KindEnum {
		t.Fatalf("Status enum not found: %+v", status)
	}
	if len(status.Variants) != 2 || status.Variants[0].Name != "ACTIVE" {
		t.Errorf("Unexpected Status variants: %+v", status.Variants)
	}

	greeter := findType(defs, "Greeter")
	if greeter == nil || greeter.Kind != model.KindProtocol {
		t.Fatalf("Greeter protocol not found: %+v", greeter)
	}

	point := findType(defs, "Point")
	if point == nil || point.Kind != model.KindNamedTuple {
		t.Fatalf("Point named tuple not found: %+v", point)
	}
	if len(point.Fields) != 2 || point.Fields[0].Name != "x" {
		t.Errorf("Unexpected Point fields: %+v", point.Fields)
	}

	config := findType(defs, "Config")
	if config == nil || config.Kind != model.KindTypedDict {
		t.Fatalf("Config typed dict not found: %+v", config)
	}
	if f := findField(config.Fields, "port"); f == nil || f.Type != "int" {
		t.Errorf("Unexpected Config fields: %+v", config.Fields)
	}
}

func TestJavaExtraction(t *testing.T) {
	code := `
public class Invoice {
    private long id;
    private String customer;
}

interface Payable {
    void pay(long amount);
}

enum Currency { EUR, USD }

record Line(String sku, int qty) {}
`
	defs := extract(t, "Invoice.java", code)
	if len(defs) != 4 {
		t.Fatalf("Expected 4 types, got %d", len(defs))
	}

	inv := findType(defs, "Invoice")
	if inv == nil || inv.Kind != model.KindClass {
		t.Fatalf("Invoice class not found: %+v", inv)
	}
	if len(inv.Fields) != 2 || inv.Fields[1].Type != "String" {
		t.Errorf("Unexpected Invoice fields: %+v", inv.Fields)
	}

	if p := findType(defs, "Payable"); p == nil || p.Kind != model.KindInterface || len(p.Members) != 1 {
		t.Errorf("Unexpected Payable: %+v", p)
	}

	cur := findType(defs, "Currency")
	if cur == nil || cur.Kind != model.KindEnum || len(cur.Variants) != 2 {
		t.Errorf("Unexpected Currency: %+v", cur)
	}

	rec := findType(defs, "Line")
	if rec == nil || rec.Kind != model.KindRecord {
		t.Fatalf("Line record not found: %+v", rec)
	}
	if len(rec.Fields) != 2 || rec.Fields[0].Name != "sku" || rec.Fields[1].Type != "int" {
		t.Errorf("Unexpected record components: %+v", rec.Fields)
	}
}

func TestCSharpExtraction(t *testing.T) {
	code := `
using Money = System.Decimal;

public class Invoice {
    private long id;
    public string Customer { get; set; }
}

public interface IPayable {
    void Pay(long amount);
}

public struct Point {
    public double X;
    public double Y;
}

public enum Currency { Eur, Usd }

public record Line(string Sku, int Qty);
`
	defs := extract(t, "Invoice.cs", code)
	if len(defs) != 6 {
		t.Fatalf("Expected 6 types, got %d", len(defs))
	}

	if a := findType(defs, "Money"); a == nil || a.Kind != model.KindTypeAlias {
		t.Errorf("Unexpected Money alias: %+v", a)
	}

	inv := findType(defs, "Invoice")
	if inv == nil || inv.Kind != model.KindClass {
		t.Fatalf("Invoice class not found: %+v", inv)
	}
	if len(inv.Fields) != 2 {
		t.Fatalf("Expected id field and Customer property, got %+v", inv.Fields)
	}
	if findField(inv.Fields, "id") == nil || findField(inv.Fields, "Customer") == nil {
		t.Errorf("Unexpected Invoice fields: %+v", inv.Fields)
	}

	if p := findType(defs, "IPayable"); p == nil || p.Kind != model.KindInterface || len(p.Members) != 1 {
		t.Errorf("Unexpected IPayable: %+v", p)
	}

	pt := findType(defs, "Point")
	if pt == nil || pt.Kind != model.KindStruct {
		t.Fatalf("Point struct not found: %+v", pt)
	}
	if len(pt.Fields) != 2 || findField(pt.Fields, "X") == nil {
		t.Errorf("Unexpected Point fields: %+v", pt.Fields)
	}

	cur := findType(defs, "Currency")
	if cur == nil || cur.Kind != model.KindEnum || len(cur.Variants) != 2 {
		t.Errorf("Unexpected Currency: %+v", cur)
	}

	if rec := findType(defs, "Line"); rec == nil || rec.Kind != model.KindRecord {
		t.Errorf("Line record not found: %+v", rec)
	}
}

func TestPHPExtraction(t *testing.T) {
	code := `<?php
class Order {
    public int $id;
    private string $status;
}

interface Shippable {
    public function ship(): void;
}

trait Timestamps {
    public function touch(): void {}
}

enum Priority {
    case Low;
    case High;
}
`
	defs := extract(t, "order.php", code)
	if len(defs) != 4 {
		t.Fatalf("Expected 4 types, got %d", len(defs))
	}

	order := findType(defs, "Order")
	if order == nil || order.Kind != model.KindClass {
		t.Fatalf("Order class not found: %+v", order)
	}
	if len(order.Fields) != 2 || order.Fields[0].Name != "id" || order.Fields[0].Type != "int" {
		t.Errorf("Unexpected Order fields: %+v", order.Fields)
	}

	if s := findType(defs, "Shippable"); s == nil || s.Kind != model.KindInterface || len(s.Members) != 1 {
		t.Errorf("Unexpected Shippable: %+v", s)
	}
	if tr := findType(defs, "Timestamps"); tr == nil || tr.Kind != model.KindTrait || len(tr.Members) != 1 {
		t.Errorf("Unexpected Timestamps: %+v", tr)
	}

	prio := findType(defs, "Priority")
	if prio == nil || prio.Kind != model.KindEnum {
		t.Fatalf("Priority enum not found: %+v", prio)
	}
	if len(prio.Variants) != 2 || prio.Variants[1].Name != "High" {
		t.Errorf("Unexpected Priority variants: %+v", prio.Variants)
	}
}

func TestRubyExtraction(t *testing.T) {
	code := `
class Widget
  attr_accessor :label, :width

  def initialize(label)
    @label = label
    @clicks = 0
  end
end

module Renderable
  def render
  end
end
`
	defs := extract(t, "widget.rb", code)
	if len(defs) != 2 {
		t.Fatalf("Expected 2 types, got %d", len(defs))
	}

	widget := findType(defs, "Widget")
	if widget == nil || widget.Kind != model.KindClass {
		t.Fatalf("Widget class not found: %+v", widget)
	}
	// label from attr_accessor must not repeat from the initialize assignment.
	if len(widget.Fields) != 3 {
		t.Fatalf("Expected label, width and clicks fields, got %+v", widget.Fields)
	}
	if findField(widget.Fields, "clicks") == nil {
		t.Errorf("clicks instance variable not inferred: %+v", widget.Fields)
	}

	mod := findType(defs, "Renderable")
	if mod == nil || mod.Kind != model.KindTrait {
		t.Fatalf("Renderable module not found: %+v", mod)
	}
	if len(mod.Members) != 1 || mod.Members[0].Name != "render" {
		t.Errorf("Unexpected Renderable members: %+v", mod.Members)
	}
}

func TestDuplicateNamesKeepFirst(t *testing.T) {
	code := `
struct Config { a: u8 }
struct Config { b: u8 }
`
	defs := extract(t, "dup.rs", code)
	if len(defs) != 1 {
		t.Fatalf("Expected 1 type after dedupe, got %d", len(defs))
	}
	if len(defs[0].Fields) != 1 || defs[0].Fields[0].Name != "a" {
		t.Errorf("Expected first definition kept, got %+v", defs[0].Fields)
	}
}

func TestExtractionIsDeterministic(t *testing.T) {
	code := `
struct Point { x: f64, y: f64 }

enum Direction { North, South }

trait Drawable {
    fn draw(&self);
}

impl Point {
    fn norm(&self) -> f64 { 0.0 }
}
`
	p := NewDefault()
	first, err := p.ExtractTypes("shapes.rs", []byte(code))
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.ExtractTypes("shapes.rs", []byte(code))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Repeated extraction differs:\n%+v\n%+v", first, second)
	}
}

func TestUnsupportedExtension(t *testing.T) {
	p := NewDefault()
	if p.Supported("notes.txt") {
		t.Error("txt should not be supported")
	}
	if !p.Supported("lib.rs") {
		t.Error("rs should be supported")
	}
}

func findField(fields []model.Field, name string) *model.Field {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}
