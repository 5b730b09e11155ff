package registry

import "fmt"

// NotFoundError signals that the device is not part of the configured pool.
type NotFoundError struct {
	Device string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("device %q is not in the device pool", e.Device)
}

// AlreadyBookedError signals a book attempt on a device someone holds.
type AlreadyBookedError struct {
	Device string
	Holder string
}

func (e AlreadyBookedError) Error() string {
	return fmt.Sprintf("device %q is already booked by %s", e.Device, e.Holder)
}

// NotBookedError signals a return attempt on a device nobody holds.
type NotBookedError struct {
	Device string
}

func (e NotBookedError) Error() string {
	return fmt.Sprintf("device %q is not booked", e.Device)
}

// WrongUserError signals a return attempt by someone other than the holder.
type WrongUserError struct {
	Device string
	Holder string
}

func (e WrongUserError) Error() string {
	return fmt.Sprintf("device %q is booked by %s, not the requesting user", e.Device, e.Holder)
}
