package remote

import "fmt"

const (
	msgCreated = "Todo created successfully"
	msgUpdated = "Todo updated successfully"
	msgDeleted = "Todo deleted successfully"
)

func failureMessage(op Op, id string) string {
	switch op {
	case OpList:
		return "Failed to fetch todos"
	case OpGet:
		return fmt.Sprintf("Failed to fetch todo with id %s", id)
	case OpCreate:
		return "Failed to create todo"
	case OpUpdate:
		return fmt.Sprintf("Failed to update todo with id %s", id)
	case OpDelete:
		return fmt.Sprintf("Failed to delete todo with id %s", id)
	}
	return fmt.Sprintf("%s failed", op)
}

func notFound(op Op, id string) error {
	return &OperationError{Op: op, ID: id, Message: fmt.Sprintf("Todo with id %s not found", id), Err: ErrNotFound}
}

func transient(op Op, id string) error {
	return &OperationError{Op: op, ID: id, Message: failureMessage(op, id), Err: ErrTransient}
}

func interrupted(op Op, id string, cause error) error {
	return &OperationError{Op: op, ID: id, Message: failureMessage(op, id), Err: cause}
}
