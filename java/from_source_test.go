package java

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jgen/java/parser"
)

func parseCU(t *testing.T, src string) *parser.Node {
	t.Helper()
	cu := parser.ParseCompilationUnit(strings.NewReader(src)).Finish()
	if cu == nil {
		t.Fatalf("parse of\n%s\nreturned nil", src)
	}
	return cu
}

func modelsOf(t *testing.T, src string) []*ClassModel {
	t.Helper()
	models, err := ClassModelsFromSource([]byte(src))
	if err != nil {
		t.Fatalf("ClassModelsFromSource: %v", err)
	}
	if len(models) == 0 {
		t.Fatalf("no models from\n%s", src)
	}
	return models
}

func TestClassModelHeader(t *testing.T) {
	models := modelsOf(t, `package com.example;

import java.util.List;
import java.io.Serializable;

public abstract class Repo<T extends Comparable<T>> extends Base implements Serializable, Iterable<T> {
}
`)
	c := models[0]
	if c.Name != "com.example.Repo" || c.SimpleName != "Repo" || c.Package != "com.example" {
		t.Errorf("names = %q %q %q", c.Name, c.SimpleName, c.Package)
	}
	if c.Visibility != VisibilityPublic || !c.IsAbstract || c.Kind != ClassKindClass {
		t.Errorf("header = %+v", c)
	}
	if c.SuperClass != "com.example.Base" {
		t.Errorf("SuperClass = %q", c.SuperClass)
	}
	if diff := cmp.Diff([]string{"java.io.Serializable", "java.lang.Iterable"}, c.Interfaces); diff != "" {
		t.Errorf("Interfaces (-want +got):\n%s", diff)
	}
	if len(c.TypeParameters) != 1 || c.TypeParameters[0].Name != "T" {
		t.Fatalf("TypeParameters = %+v", c.TypeParameters)
	}
	bound := c.TypeParameters[0].Bounds[0]
	if bound.String() != "java.lang.Comparable<T>" {
		t.Errorf("bound = %s", bound)
	}
}

func TestClassModelMembers(t *testing.T) {
	models := modelsOf(t, `package p;

import java.util.*;
import java.nio.charset.Charset;

class Text {
    private static final int LIMIT = 10, OTHER;
    protected List<String> lines;
    public Text(String s) {}
    public byte[] getBytes(Charset cs) { return null; }
    public <E> E pick(E... options) throws java.io.IOException { return null; }
    abstract void close();
}
`)
	c := models[0]

	var fields []string
	for _, f := range c.Fields {
		fields = append(fields, f.Name+":"+f.Type.String())
	}
	want := []string{"LIMIT:int", "OTHER:int", "lines:p.List<java.lang.String>"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	if !c.Fields[0].IsStatic || !c.Fields[0].IsFinal || c.Fields[0].Visibility != VisibilityPrivate {
		t.Errorf("LIMIT modifiers = %+v", c.Fields[0])
	}

	var sigs []string
	for _, m := range c.Methods {
		sigs = append(sigs, m.Signature())
	}
	want = []string{
		"<init>(java.lang.String)",
		"getBytes(java.nio.charset.Charset) : byte[]",
		"pick(E[]) : E",
		"close() : void",
	}
	if diff := cmp.Diff(want, sigs); diff != "" {
		t.Errorf("methods (-want +got):\n%s", diff)
	}

	pick := c.Method("pick")
	if !pick.IsVarargs || !pick.ReturnType.IsTypeVariable {
		t.Errorf("pick = %+v", pick)
	}
	if diff := cmp.Diff([]string{"java.io.IOException"}, pick.Exceptions); diff != "" {
		t.Errorf("exceptions (-want +got):\n%s", diff)
	}
	if !c.Methods[0].IsConstructor {
		t.Error("first method must be the constructor")
	}
}

func TestInterfaceMembersArePublic(t *testing.T) {
	models := modelsOf(t, `interface Shape {
    int SIDES = 0;
    double area();
    default String name() { return ""; }
    static Shape unit() { return null; }
}`)
	c := models[0]
	if c.Kind != ClassKindInterface || !c.IsAbstract {
		t.Errorf("kind = %s abstract = %v", c.Kind, c.IsAbstract)
	}
	f := c.Fields[0]
	if !f.IsStatic || !f.IsFinal || f.Visibility != VisibilityPublic {
		t.Errorf("constant = %+v", f)
	}
	for _, m := range c.Methods {
		if m.Visibility != VisibilityPublic {
			t.Errorf("%s visibility = %s", m.Name, m.Visibility)
		}
	}
	if !c.Method("area").IsAbstract || c.Method("name").IsAbstract || c.Method("unit").IsAbstract {
		t.Error("only area is abstract")
	}
}

func TestNestedTypesAndRecords(t *testing.T) {
	models := modelsOf(t, `package org.example;

public class Outer {
    public static class Inner {
        Inner next;
    }
    record Point(int x, int y) {
        public int x() { return x; }
    }
    enum Color { RED, GREEN; Color next() { return RED; } }
}`)

	var names []string
	for _, m := range models {
		names = append(names, m.Name)
	}
	want := []string{"org.example.Outer", "org.example.Outer.Inner", "org.example.Outer.Point", "org.example.Outer.Color"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("models (-want +got):\n%s", diff)
	}

	outer, inner, point, color := models[0], models[1], models[2], models[3]
	if diff := cmp.Diff(want[1:], outer.InnerClasses); diff != "" {
		t.Errorf("InnerClasses (-want +got):\n%s", diff)
	}
	if inner.EnclosingClass != outer.Name || !inner.IsStatic || inner.Package != "org.example" {
		t.Errorf("inner = %+v", inner)
	}
	if inner.Fields[0].Type.Name != "org.example.Outer.Inner" {
		t.Errorf("self reference resolved to %q", inner.Fields[0].Type.Name)
	}

	if point.Kind != ClassKindRecord || point.SuperClass != "java.lang.Record" {
		t.Errorf("record = %+v", point)
	}
	var accessors []string
	for _, m := range point.Methods {
		accessors = append(accessors, m.Name)
	}
	if diff := cmp.Diff([]string{"x", "y"}, accessors); diff != "" {
		t.Errorf("record accessors (-want +got):\n%s", diff)
	}

	if color.Kind != ClassKindEnum || len(color.Fields) != 2 || color.Fields[0].Type.Name != color.Name {
		t.Errorf("enum = %+v", color)
	}
	if color.Method("next") == nil {
		t.Error("enum method missing")
	}
}

func TestResolverOrder(t *testing.T) {
	models := modelsOf(t, `package app;
import java.util.List;
import java.util.concurrent.*;
class A {
    List a;
    String b;
    Map.Entry c;
    Executor d;
    int[] e;
}`)
	got := map[string]string{}
	for _, f := range models[0].Fields {
		got[f.Name] = f.Type.String()
	}
	want := map[string]string{
		"a": "java.util.List",
		"b": "java.lang.String",
		"c": "Map.Entry",
		"d": "app.Executor",
		"e": "int[]",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("types without index (-want +got):\n%s", diff)
	}
}

func TestResolverStarImportsUseIndex(t *testing.T) {
	src := `package app;
import java.util.concurrent.*;
import java.util.Map;
class A {
    Executor d;
    Map.Entry<String, ?> e;
    java.util.List<? super Integer> f;
}`
	cu := parseCU(t, src)
	index := ClassList{{Name: "java.util.concurrent.Executor"}}
	models := ClassModelsFromTree(cu, index)

	fields := models[0].Fields
	if fields[0].Type.Name != "java.util.concurrent.Executor" {
		t.Errorf("star import = %q", fields[0].Type.Name)
	}
	if got := fields[1].Type.String(); got != "java.util.Map.Entry<java.lang.String, ?>" {
		t.Errorf("nested type = %q", got)
	}
	if got := fields[2].Type.String(); got != "java.util.List<? super java.lang.Integer>" {
		t.Errorf("qualified wildcard type = %q", got)
	}
}
