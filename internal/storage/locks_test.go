package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pooledConn stands in for a pooled database connection.
type pooledConn struct {
	id       int
	released bool
}

type fakePool struct {
	next    int
	granted bool
	err     error
}

func (p *fakePool) try() (*pooledConn, bool, error) {
	p.next++
	if p.err != nil {
		return nil, false, p.err
	}
	return &pooledConn{id: p.next}, p.granted, nil
}

func TestSessionLocks_UnlockOnAcquiringConnection(t *testing.T) {
	var locks sessionLocks[*pooledConn]
	pool := &fakePool{granted: true}

	ok, err := locks.acquire(7, pool.try)
	require.NoError(t, err)
	require.True(t, ok)

	// Pool activity between acquire and release must not matter.
	pool.next += 10

	var unlockedOn *pooledConn
	released, err := locks.release(7, func(c *pooledConn) (bool, error) {
		unlockedOn = c
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, released)
	require.NotNil(t, unlockedOn)
	assert.Equal(t, 1, unlockedOn.id)
}

func TestSessionLocks_HeldKeySkipsDatabase(t *testing.T) {
	var locks sessionLocks[*pooledConn]
	pool := &fakePool{granted: true}

	ok, err := locks.acquire(7, pool.try)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = locks.acquire(7, pool.try)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, pool.next)
}

func TestSessionLocks_Failures(t *testing.T) {
	var locks sessionLocks[*pooledConn]

	ok, err := locks.acquire(1, (&fakePool{granted: false}).try)
	require.NoError(t, err)
	assert.False(t, ok, "lock held by another session")

	boom := errors.New("connection reset")
	_, err = locks.acquire(1, (&fakePool{err: boom}).try)
	assert.ErrorIs(t, err, boom)

	_, err = locks.release(1, func(*pooledConn) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, ErrLockNotHeld, "nothing was acquired")

	ok, err = locks.acquire(1, (&fakePool{granted: true}).try)
	require.NoError(t, err)
	require.True(t, ok)
	released, err := locks.release(1, func(*pooledConn) (bool, error) { return false, nil })
	assert.False(t, released)
	assert.ErrorIs(t, err, ErrLockNotHeld, "postgres reported the lock was not ours")
}

func TestSessionLocks_Drain(t *testing.T) {
	var locks sessionLocks[*pooledConn]
	pool := &fakePool{granted: true}
	for _, key := range []int64{1, 2} {
		ok, err := locks.acquire(key, pool.try)
		require.NoError(t, err)
		require.True(t, ok)
	}

	var drained []*pooledConn
	locks.drain(func(c *pooledConn) {
		c.released = true
		drained = append(drained, c)
	})
	assert.Len(t, drained, 2)

	_, err := locks.release(1, func(*pooledConn) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, ErrLockNotHeld)
}
