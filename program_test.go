package qlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgram_FunctionAndClassRegistry(t *testing.T) {
	p := NewProgram()
	fn := NewCallable("double", func(args []Value, sink *Sink) Value {
		return NewInteger(args[0].(*Integer).V * 2)
	}, nil)
	p.DeclareFunction(fn)

	got, ok := p.LookupFunction("double")
	require.True(t, ok)
	assert.EqualValues(t, 10, got.Exec([]Value{NewInteger(5)}, nil).(*Integer).V)

	_, ok = p.LookupFunction("missing")
	assert.False(t, ok)

	p.DeclareClass(NewClass("Widget"))
	cls, ok := p.LookupClass("Widget")
	require.True(t, ok)
	assert.Equal(t, "Widget", cls.Name)
}

func TestProgram_NewThreadRegistersAndCloses(t *testing.T) {
	p := NewProgram()
	th := p.NewThread()
	assert.NotZero(t, th.ID)
	th.Close()
}

func TestBuiltins_Base64RoundTrip(t *testing.T) {
	enc, ok := LookupBuiltin("base64_encode")
	require.True(t, ok)
	dec, ok := LookupBuiltin("base64_decode")
	require.True(t, ok)

	encoded := enc([]Value{NewBinary([]byte("hello"))}, nil).(*String)
	decoded := dec([]Value{encoded}, nil).(*Binary)
	assert.Equal(t, []byte("hello"), decoded.Bytes())
}

func TestBuiltins_CompressRoundTrip(t *testing.T) {
	compress, _ := LookupBuiltin("compress")
	uncompress, _ := LookupBuiltin("uncompress")

	original := NewBinary([]byte("repeat repeat repeat repeat"))
	compressed := compress([]Value{original}, nil).(*Binary)
	restored := uncompress([]Value{compressed}, nil).(*Binary)
	assert.Equal(t, original.Bytes(), restored.Bytes())
}

func TestModuleRegistry_RegisterFindUnregister(t *testing.T) {
	r := NewModuleRegistry()
	m := NewModuleInfo("json", "1.0")
	sink := NewSink()
	r.Register(m, sink)
	assert.False(t, sink.HasError())

	found := r.Find("json", sink)
	require.NotNil(t, found)
	assert.Equal(t, "1.0", found.Version)

	r.Unregister("json")
	assert.Nil(t, r.Find("json", sink))
	assert.True(t, sink.HasError())
}

func TestModuleRegistry_VersionConflictRaises(t *testing.T) {
	r := NewModuleRegistry()
	sink := NewSink()
	r.Register(NewModuleInfo("json", "1.0"), sink)
	r.Register(NewModuleInfo("json", "2.0"), sink)
	require.True(t, sink.HasError())
	assert.Equal(t, "MODULE-LOAD-ERROR", sink.Err().Code)
}

func TestParseDatasourceString(t *testing.T) {
	info := ParseDatasourceString("sqlite:user/pass@localhost:5432/mydb?cache=shared", nil)
	require.NotNil(t, info)
	assert.Equal(t, "sqlite", info.Driver)
	assert.Equal(t, "user", info.User)
	assert.Equal(t, "pass", info.Password)
	assert.Equal(t, "localhost", info.Host)
	assert.Equal(t, 5432, info.Port)
	assert.Equal(t, "mydb", info.Database)
	assert.Equal(t, "shared", info.Options["cache"])
}

func TestParseDatasourceString_MissingDriverRaises(t *testing.T) {
	sink := NewSink()
	info := ParseDatasourceString("nodriverhere", sink)
	assert.Nil(t, info)
	require.True(t, sink.HasError())
	assert.Equal(t, "DATASOURCE-PARSE-ERROR", sink.Err().Code)
}

func TestDatasourceInfo_ConnectSQLite(t *testing.T) {
	info := ParseDatasourceString("sqlite:", nil)
	require.NotNil(t, info)
	db := info.Connect(nil)
	require.NotNil(t, db)
	defer db.Close()
	require.NoError(t, db.Ping())
}
